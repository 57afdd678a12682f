package omtsf

import "encoding/json"

// Identifier is an external identifier attached to a node or edge: an LEI,
// DUNS, GLN, VAT, national-registry number, or an opaque scheme/value pair
// (including the "internal" and "opaque" schemes used by local IDs and
// boundary references, respectively).
type Identifier struct {
	Scheme              string
	Value               string
	Authority           *string
	ValidFrom           *CalendarDate
	ValidTo             OptionalDate
	Sensitivity         *Sensitivity
	VerificationStatus  *VerificationStatus
	VerificationDate    *CalendarDate
	Extra               *Extra
}

type identifierWire struct {
	Scheme             string          `json:"scheme"`
	Value              string          `json:"value"`
	Authority          *string         `json:"authority,omitempty"`
	ValidFrom          *CalendarDate   `json:"valid_from,omitempty"`
	ValidTo            json.RawMessage `json:"valid_to,omitempty"`
	Sensitivity        *Sensitivity    `json:"sensitivity,omitempty"`
	VerificationStatus *VerificationStatus `json:"verification_status,omitempty"`
	VerificationDate   *CalendarDate   `json:"verification_date,omitempty"`
}

var identifierKnownKeys = map[string]bool{
	"scheme": true, "value": true, "authority": true, "valid_from": true,
	"valid_to": true, "sensitivity": true, "verification_status": true,
	"verification_date": true,
}

// MarshalJSON implements the scheme/value/authority/three-way-valid_to
// wire shape, preserving extra fields (including "entity_status").
func (id Identifier) MarshalJSON() ([]byte, error) {
	m := make(map[string]json.RawMessage)
	if id.Extra != nil {
		for _, k := range id.Extra.Keys() {
			v, _ := id.Extra.Get(k)
			m[k] = v
		}
	}
	setJSON(m, "scheme", id.Scheme)
	setJSON(m, "value", id.Value)
	if id.Authority != nil {
		setJSON(m, "authority", *id.Authority)
	}
	if id.ValidFrom != nil {
		setJSON(m, "valid_from", *id.ValidFrom)
	}
	if raw, ok, err := id.ValidTo.MarshalJSONField(); err != nil {
		return nil, err
	} else if ok {
		m["valid_to"] = raw
	}
	if id.Sensitivity != nil {
		setJSON(m, "sensitivity", *id.Sensitivity)
	}
	if id.VerificationStatus != nil {
		setJSON(m, "verification_status", *id.VerificationStatus)
	}
	if id.VerificationDate != nil {
		setJSON(m, "verification_date", *id.VerificationDate)
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes the identifier wire shape, preserving unknown
// fields in Extra and distinguishing absent/null/present for ValidTo.
func (id *Identifier) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var w identifierWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	_, hasValidTo := raw["valid_to"]
	validTo, err := UnmarshalOptionalDate(w.ValidTo, hasValidTo)
	if err != nil {
		return err
	}
	*id = Identifier{
		Scheme:             w.Scheme,
		Value:              w.Value,
		Authority:          w.Authority,
		ValidFrom:          w.ValidFrom,
		ValidTo:            validTo,
		Sensitivity:        w.Sensitivity,
		VerificationStatus: w.VerificationStatus,
		VerificationDate:   w.VerificationDate,
		Extra:              decodeExtra(raw, identifierKnownKeys),
	}
	return nil
}

// EntityStatus returns the raw "entity_status" extra field, used by LEI
// annulment exclusion (identity.Normalize).
func (id Identifier) EntityStatus() (string, bool) {
	if id.Extra == nil {
		return "", false
	}
	var s string
	ok, err := id.Extra.GetValue("entity_status", &s)
	if err != nil || !ok {
		return "", false
	}
	return s, true
}

func setJSON(m map[string]json.RawMessage, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	m[key] = data
}
