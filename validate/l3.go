package validate

import (
	"fmt"
	"strings"

	"github.com/omtsf/omtsf-go"
)

// runL3 performs external-lookup validation: LEI registry status and
// national-registry status. Any identifier whose source cannot answer is
// skipped silently, producing no diagnostic.
func runL3(f *omtsf.File, ext ExternalDataSource, r *ValidationResult) {
	if ext == nil {
		return
	}
	for i, n := range f.Nodes {
		for j, id := range n.Identifiers {
			checkExternalIdentifier(id, ext, fmt.Sprintf("nodes[%d].identifiers[%d]", i, j), r)
		}
	}
	for i, e := range f.Edges {
		for j, id := range e.Identifiers {
			checkExternalIdentifier(id, ext, fmt.Sprintf("edges[%d].identifiers[%d]", i, j), r)
		}
	}
}

func checkExternalIdentifier(id omtsf.Identifier, ext ExternalDataSource, path string, r *ValidationResult) {
	switch strings.ToLower(id.Scheme) {
	case "lei":
		status, ok := ext.LEIStatus(id.Value)
		if !ok {
			return
		}
		if status != "ISSUED" {
			r.add(Diagnostic{RuleID: "L3.lei_status", Severity: Warning,
				Message: fmt.Sprintf("LEI %q has registry status %q", id.Value, status), Path: path})
		}
	case "nat-reg":
		if id.Authority == nil {
			return
		}
		status, ok := ext.NatRegStatus(*id.Authority, id.Value)
		if !ok {
			return
		}
		if status != "ACTIVE" {
			r.add(Diagnostic{RuleID: "L3.nat_reg_status", Severity: Warning,
				Message: fmt.Sprintf("national-registry entry %q/%q has status %q", *id.Authority, id.Value, status), Path: path})
		}
	}
}
