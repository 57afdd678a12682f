package omtsf

import "encoding/json"

// EdgeProperties is the nested "properties" object carried by an Edge:
// universal fields (valid_from/valid_to/labels/data_quality) plus
// type-specific scalars used as identity-bearing fields during diff.
type EdgeProperties struct {
	ValidFrom   *CalendarDate
	ValidTo     OptionalDate
	Labels      []Label
	DataQuality *DataQuality

	Percentage  *float64
	Commodity   *string
	Volume      *float64
	Tier        *int
	ServiceType *ServiceType
	EventType   *EventType
	Scope       *DisclosureScope

	Extra *Extra
}

type edgePropertiesWire struct {
	ValidFrom   *CalendarDate    `json:"valid_from,omitempty"`
	ValidTo     json.RawMessage `json:"valid_to,omitempty"`
	Labels      []labelWire  `json:"labels,omitempty"`
	DataQuality *DataQuality `json:"data_quality,omitempty"`

	Percentage  *float64         `json:"percentage,omitempty"`
	Commodity   *string          `json:"commodity,omitempty"`
	Volume      *float64         `json:"volume,omitempty"`
	Tier        *int             `json:"tier,omitempty"`
	ServiceType *ServiceType     `json:"service_type,omitempty"`
	EventType   *EventType       `json:"event_type,omitempty"`
	Scope       *DisclosureScope `json:"scope,omitempty"`
}

var edgePropertiesKnownKeys = map[string]bool{
	"valid_from": true, "valid_to": true, "labels": true, "data_quality": true,
	"percentage": true, "commodity": true, "volume": true, "tier": true,
	"service_type": true, "event_type": true, "scope": true,
}

func (p EdgeProperties) MarshalJSON() ([]byte, error) {
	m := make(map[string]json.RawMessage)
	if p.Extra != nil {
		for _, k := range p.Extra.Keys() {
			v, _ := p.Extra.Get(k)
			m[k] = v
		}
	}
	if p.ValidFrom != nil {
		setJSON(m, "valid_from", *p.ValidFrom)
	}
	if raw, ok, err := p.ValidTo.MarshalJSONField(); err != nil {
		return nil, err
	} else if ok {
		m["valid_to"] = raw
	}
	if len(p.Labels) > 0 {
		setJSON(m, "labels", labelsToWire(p.Labels))
	}
	if p.DataQuality != nil {
		setJSON(m, "data_quality", *p.DataQuality)
	}
	setOptionalFields(m, map[string]any{
		"percentage": p.Percentage, "commodity": p.Commodity, "volume": p.Volume,
		"tier": p.Tier, "service_type": p.ServiceType, "event_type": p.EventType,
		"scope": p.Scope,
	})
	return json.Marshal(m)
}

func (p *EdgeProperties) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var w edgePropertiesWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	_, hasValidTo := raw["valid_to"]
	validTo, err := UnmarshalOptionalDate(w.ValidTo, hasValidTo)
	if err != nil {
		return err
	}
	*p = EdgeProperties{
		ValidFrom: w.ValidFrom, ValidTo: validTo, Labels: labelsFromWire(w.Labels), DataQuality: w.DataQuality,
		Percentage: w.Percentage, Commodity: w.Commodity, Volume: w.Volume, Tier: w.Tier,
		ServiceType: w.ServiceType, EventType: w.EventType, Scope: w.Scope,
		Extra: decodeExtra(raw, edgePropertiesKnownKeys),
	}
	return nil
}

// Edge is a directed, typed relationship between two nodes.
type Edge struct {
	ID     EdgeID
	Type   EdgeType
	Source NodeID
	Target NodeID

	Identifiers []Identifier
	Properties  *EdgeProperties

	Extra *Extra
}

type edgeWire struct {
	ID          EdgeID          `json:"id"`
	Type        EdgeType        `json:"type"`
	Source      NodeID          `json:"source"`
	Target      NodeID          `json:"target"`
	Identifiers []Identifier    `json:"identifiers,omitempty"`
	Properties  *EdgeProperties `json:"properties,omitempty"`
}

var edgeKnownKeys = map[string]bool{
	"id": true, "type": true, "source": true, "target": true,
	"identifiers": true, "properties": true,
}

func (e Edge) MarshalJSON() ([]byte, error) {
	m := make(map[string]json.RawMessage)
	if e.Extra != nil {
		for _, k := range e.Extra.Keys() {
			v, _ := e.Extra.Get(k)
			m[k] = v
		}
	}
	setJSON(m, "id", e.ID)
	setJSON(m, "type", e.Type)
	setJSON(m, "source", e.Source)
	setJSON(m, "target", e.Target)
	if len(e.Identifiers) > 0 {
		setJSON(m, "identifiers", e.Identifiers)
	}
	// properties defaults to the empty object when absent.
	props := e.Properties
	if props == nil {
		props = &EdgeProperties{}
	}
	setJSON(m, "properties", *props)
	return json.Marshal(m)
}

func (e *Edge) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var w edgeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*e = Edge{
		ID: w.ID, Type: w.Type, Source: w.Source, Target: w.Target,
		Identifiers: w.Identifiers, Properties: w.Properties,
		Extra: decodeExtra(raw, edgeKnownKeys),
	}
	return nil
}
