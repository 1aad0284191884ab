package store

import "github.com/mbolis/quick-contract/model"

// ContractFilter narrows a contract list. Zero fields match everything.
type ContractFilter struct {
	Query  string
	Bucket model.Bucket
}

// FilterBlueprints keeps the blueprints whose name or description contains
// query.
func FilterBlueprints(bps []model.Blueprint, query string) []model.Blueprint {
	out := make([]model.Blueprint, 0, len(bps))
	for _, bp := range bps {
		if bp.Matches(query) {
			out = append(out, bp)
		}
	}
	return out
}

// FilterContracts keeps the contracts matching f.
func FilterContracts(cs []model.Contract, f ContractFilter) []model.Contract {
	out := make([]model.Contract, 0, len(cs))
	for _, c := range cs {
		if f.Bucket != "" && c.Status.Bucket() != f.Bucket {
			continue
		}
		if c.Matches(f.Query) {
			out = append(out, c)
		}
	}
	return out
}
