package omtsf

import "encoding/json"

// Label is a (key, value) pair attached to a node or edge, compared as a
// set during diff and merged by set-union.
type Label struct {
	Key   string
	Value string
}

// DataQuality records caller-supplied confidence/provenance metadata about
// a node or edge. Extra preserves any unknown key nested inside the
// "data_quality" wire object, the same as every other level of the model.
type DataQuality struct {
	Confidence *Confidence
	Source     *string
	AsOf       *CalendarDate
	Extra      *Extra
}

type dataQualityWire struct {
	Confidence *Confidence   `json:"confidence,omitempty"`
	Source     *string       `json:"source,omitempty"`
	AsOf       *CalendarDate `json:"as_of,omitempty"`
}

var dataQualityKnownKeys = map[string]bool{
	"confidence": true, "source": true, "as_of": true,
}

func (dq DataQuality) MarshalJSON() ([]byte, error) {
	m := make(map[string]json.RawMessage)
	if dq.Extra != nil {
		for _, k := range dq.Extra.Keys() {
			v, _ := dq.Extra.Get(k)
			m[k] = v
		}
	}
	setOptionalFields(m, map[string]any{
		"confidence": dq.Confidence, "source": dq.Source, "as_of": dq.AsOf,
	})
	return json.Marshal(m)
}

func (dq *DataQuality) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var w dataQualityWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*dq = DataQuality{
		Confidence: w.Confidence, Source: w.Source, AsOf: w.AsOf,
		Extra: decodeExtra(raw, dataQualityKnownKeys),
	}
	return nil
}

// GeoPoint is a latitude/longitude pair.
type GeoPoint struct {
	Lat float64
	Lon float64
}

// Node is the single struct that represents every node subtype: an
// organization, facility, good, person, attestation, or consignment.
// Type-specific fields are nil/zero when inapplicable; Extra preserves
// unknown wire keys.
type Node struct {
	ID   NodeID
	Type NodeType

	Identifiers []Identifier
	Labels      []Label
	DataQuality *DataQuality

	// organization / facility / person
	Name         *string
	Jurisdiction *CountryCode
	Status       *string
	Operator     *string
	Address      *string
	Geo          *GeoPoint

	// good
	CommodityCode *string
	Unit          *string

	// person
	Role *string

	// attestation
	AttestationStatus  *AttestationStatus
	AttestationOutcome *AttestationOutcome
	Standard           *string
	Issuer             *string

	// risk annotations (attestation, consignment)
	RiskSeverity   *RiskSeverity
	RiskLikelihood *RiskLikelihood

	// consignment
	Volume             *float64
	ConsolidationBasis *ConsolidationBasis

	// emissions
	EmissionFactorSource *EmissionFactorSource
	CO2eKg               *float64

	// facility / consignment
	InstallationID *string

	Extra *Extra
}

type nodeWire struct {
	ID          NodeID       `json:"id"`
	Type        NodeType     `json:"type"`
	Identifiers []Identifier `json:"identifiers,omitempty"`
	Labels      []labelWire  `json:"labels,omitempty"`
	DataQuality *DataQuality `json:"data_quality,omitempty"`

	Name         *string     `json:"name,omitempty"`
	Jurisdiction *CountryCode `json:"jurisdiction,omitempty"`
	Status       *string     `json:"status,omitempty"`
	Operator     *string     `json:"operator,omitempty"`
	Address      *string     `json:"address,omitempty"`
	Geo          *GeoPoint   `json:"geo,omitempty"`

	CommodityCode *string `json:"commodity_code,omitempty"`
	Unit          *string `json:"unit,omitempty"`

	Role *string `json:"role,omitempty"`

	AttestationStatus  *AttestationStatus  `json:"attestation_status,omitempty"`
	AttestationOutcome *AttestationOutcome `json:"attestation_outcome,omitempty"`
	Standard           *string             `json:"standard,omitempty"`
	Issuer             *string             `json:"issuer,omitempty"`

	RiskSeverity   *RiskSeverity   `json:"risk_severity,omitempty"`
	RiskLikelihood *RiskLikelihood `json:"risk_likelihood,omitempty"`

	Volume             *float64            `json:"volume,omitempty"`
	ConsolidationBasis *ConsolidationBasis `json:"consolidation_basis,omitempty"`

	EmissionFactorSource *EmissionFactorSource `json:"emission_factor_source,omitempty"`
	CO2eKg               *float64              `json:"co2e_kg,omitempty"`

	InstallationID *string `json:"installation_id,omitempty"`
}

type labelWire struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

var nodeKnownKeys = map[string]bool{
	"id": true, "type": true, "identifiers": true, "labels": true, "data_quality": true,
	"name": true, "jurisdiction": true, "status": true, "operator": true, "address": true, "geo": true,
	"commodity_code": true, "unit": true, "role": true,
	"attestation_status": true, "attestation_outcome": true, "standard": true, "issuer": true,
	"risk_severity": true, "risk_likelihood": true,
	"volume": true, "consolidation_basis": true,
	"emission_factor_source": true, "co2e_kg": true,
	"installation_id": true,
}

func (n Node) MarshalJSON() ([]byte, error) {
	m := make(map[string]json.RawMessage)
	if n.Extra != nil {
		for _, k := range n.Extra.Keys() {
			v, _ := n.Extra.Get(k)
			m[k] = v
		}
	}
	setJSON(m, "id", n.ID)
	setJSON(m, "type", n.Type)
	if len(n.Identifiers) > 0 {
		setJSON(m, "identifiers", n.Identifiers)
	}
	if len(n.Labels) > 0 {
		setJSON(m, "labels", labelsToWire(n.Labels))
	}
	if n.DataQuality != nil {
		setJSON(m, "data_quality", *n.DataQuality)
	}
	setOptionalFields(m, map[string]any{
		"name": n.Name, "jurisdiction": n.Jurisdiction, "status": n.Status,
		"operator": n.Operator, "address": n.Address, "geo": n.Geo,
		"commodity_code": n.CommodityCode, "unit": n.Unit, "role": n.Role,
		"attestation_status": n.AttestationStatus, "attestation_outcome": n.AttestationOutcome,
		"standard": n.Standard, "issuer": n.Issuer,
		"risk_severity": n.RiskSeverity, "risk_likelihood": n.RiskLikelihood,
		"volume": n.Volume, "consolidation_basis": n.ConsolidationBasis,
		"emission_factor_source": n.EmissionFactorSource, "co2e_kg": n.CO2eKg,
		"installation_id": n.InstallationID,
	})
	return json.Marshal(m)
}

func (n *Node) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var w nodeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*n = Node{
		ID: w.ID, Type: w.Type,
		Identifiers: w.Identifiers, Labels: labelsFromWire(w.Labels), DataQuality: w.DataQuality,
		Name: w.Name, Jurisdiction: w.Jurisdiction, Status: w.Status, Operator: w.Operator,
		Address: w.Address, Geo: w.Geo, CommodityCode: w.CommodityCode, Unit: w.Unit, Role: w.Role,
		AttestationStatus: w.AttestationStatus, AttestationOutcome: w.AttestationOutcome,
		Standard: w.Standard, Issuer: w.Issuer,
		RiskSeverity: w.RiskSeverity, RiskLikelihood: w.RiskLikelihood,
		Volume: w.Volume, ConsolidationBasis: w.ConsolidationBasis,
		EmissionFactorSource: w.EmissionFactorSource, CO2eKg: w.CO2eKg,
		InstallationID: w.InstallationID,
		Extra:          decodeExtra(raw, nodeKnownKeys),
	}
	return nil
}

func labelsToWire(labels []Label) []labelWire {
	out := make([]labelWire, len(labels))
	for i, l := range labels {
		out[i] = labelWire{Key: l.Key, Value: l.Value}
	}
	return out
}

func labelsFromWire(wire []labelWire) []Label {
	if wire == nil {
		return nil
	}
	out := make([]Label, len(wire))
	for i, l := range wire {
		out[i] = Label{Key: l.Key, Value: l.Value}
	}
	return out
}

// setOptionalFields marshals each non-nil pointer value in fields into m
// under its key. Typed nil pointers are skipped; isNilPtr detects them
// with reflect.
func setOptionalFields(m map[string]json.RawMessage, fields map[string]any) {
	for k, v := range fields {
		if isNilPtr(v) {
			continue
		}
		setJSON(m, k, v)
	}
}
