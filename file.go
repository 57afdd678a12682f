package omtsf

import "encoding/json"

// ReportingEntity identifies the organization that authored a File.
type ReportingEntity struct {
	Name       *string
	Identifier *Identifier
}

type reportingEntityWire struct {
	Name       *string     `json:"name,omitempty"`
	Identifier *Identifier `json:"identifier,omitempty"`
}

// File is a single OMTSF snapshot: a directed labelled supply-chain graph
// plus header metadata. Required: OMTSFVersion, SnapshotDate, FileSalt,
// Nodes, Edges.
type File struct {
	OMTSFVersion SemVer
	SnapshotDate CalendarDate
	FileSalt     FileSalt
	Nodes        []Node
	Edges        []Edge

	DisclosureScope     *DisclosureScope
	PreviousSnapshotRef *string
	SnapshotSequence    *int64
	ReportingEntity     *ReportingEntity

	Extra *Extra
}

type fileWire struct {
	OMTSFVersion SemVer       `json:"omtsf_version"`
	SnapshotDate CalendarDate `json:"snapshot_date"`
	FileSalt     FileSalt     `json:"file_salt"`
	Nodes        []Node       `json:"nodes"`
	Edges        []Edge       `json:"edges"`

	DisclosureScope     *DisclosureScope     `json:"disclosure_scope,omitempty"`
	PreviousSnapshotRef *string              `json:"previous_snapshot_ref,omitempty"`
	SnapshotSequence    *int64               `json:"snapshot_sequence,omitempty"`
	ReportingEntity     *reportingEntityWire `json:"reporting_entity,omitempty"`
}

var fileKnownKeys = map[string]bool{
	"omtsf_version": true, "snapshot_date": true, "file_salt": true, "nodes": true, "edges": true,
	"disclosure_scope": true, "previous_snapshot_ref": true, "snapshot_sequence": true,
	"reporting_entity": true,
}

func (f File) MarshalJSON() ([]byte, error) {
	m := make(map[string]json.RawMessage)
	if f.Extra != nil {
		for _, k := range f.Extra.Keys() {
			v, _ := f.Extra.Get(k)
			m[k] = v
		}
	}
	setJSON(m, "omtsf_version", f.OMTSFVersion)
	setJSON(m, "snapshot_date", f.SnapshotDate)
	setJSON(m, "file_salt", f.FileSalt)
	if f.Nodes == nil {
		setJSON(m, "nodes", []Node{})
	} else {
		setJSON(m, "nodes", f.Nodes)
	}
	if f.Edges == nil {
		setJSON(m, "edges", []Edge{})
	} else {
		setJSON(m, "edges", f.Edges)
	}
	if f.DisclosureScope != nil {
		setJSON(m, "disclosure_scope", *f.DisclosureScope)
	}
	if f.PreviousSnapshotRef != nil {
		setJSON(m, "previous_snapshot_ref", *f.PreviousSnapshotRef)
	}
	if f.SnapshotSequence != nil {
		setJSON(m, "snapshot_sequence", *f.SnapshotSequence)
	}
	if f.ReportingEntity != nil {
		setJSON(m, "reporting_entity", reportingEntityWire{Name: f.ReportingEntity.Name, Identifier: f.ReportingEntity.Identifier})
	}
	return json.Marshal(m)
}

func (f *File) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var w fileWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	var re *ReportingEntity
	if w.ReportingEntity != nil {
		re = &ReportingEntity{Name: w.ReportingEntity.Name, Identifier: w.ReportingEntity.Identifier}
	}
	*f = File{
		OMTSFVersion: w.OMTSFVersion, SnapshotDate: w.SnapshotDate, FileSalt: w.FileSalt,
		Nodes: w.Nodes, Edges: w.Edges,
		DisclosureScope: w.DisclosureScope, PreviousSnapshotRef: w.PreviousSnapshotRef,
		SnapshotSequence: w.SnapshotSequence, ReportingEntity: re,
		Extra: decodeExtra(raw, fileKnownKeys),
	}
	return nil
}

// NodeByID returns the node with the given ID, if present.
func (f *File) NodeByID(id NodeID) (*Node, bool) {
	for i := range f.Nodes {
		if f.Nodes[i].ID == id {
			return &f.Nodes[i], true
		}
	}
	return nil, false
}
