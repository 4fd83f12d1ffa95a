package domain

// Hierarchy levels of the conventional Enterprise → Site → Area → Line → Cell
// ordering. The values are labels consumed by path resolution; the data model
// does not force a node's parent to carry a higher level.
const (
	LevelEnterprise = 1
	LevelSite       = 2
	LevelArea       = 3
	LevelLine       = 4
	LevelCell       = 5
)

// EquipmentPath is a fully materialized ancestor chain for one equipment
// node, ordered root first and ending with the node itself. Each element
// carries its preloaded Type so level lookups need no further queries.
type EquipmentPath struct {
	EquipmentID string      `json:"equipment_id"`
	Chain       []Equipment `json:"path"`
}

// Depth returns the number of nodes in the chain.
func (p EquipmentPath) Depth() int { return len(p.Chain) }

// atLevel returns the first node in chain order whose type carries the given
// level label, or nil. The scan is order-dependent and does no structural
// checking: a malformed chain with two nodes of the same level yields the
// first one.
func (p EquipmentPath) atLevel(level int) *Equipment {
	for i := range p.Chain {
		if p.Chain[i].Type.Level == level {
			return &p.Chain[i]
		}
	}
	return nil
}

// Enterprise returns the enterprise-level ancestor (including self), or nil.
func (p EquipmentPath) Enterprise() *Equipment { return p.atLevel(LevelEnterprise) }

// Site returns the site-level ancestor (including self), or nil.
func (p EquipmentPath) Site() *Equipment { return p.atLevel(LevelSite) }

// Area returns the area-level ancestor (including self), or nil.
func (p EquipmentPath) Area() *Equipment { return p.atLevel(LevelArea) }

// Line returns the line-level ancestor (including self), or nil.
func (p EquipmentPath) Line() *Equipment { return p.atLevel(LevelLine) }

// Cell returns the cell-level ancestor (including self), or nil.
func (p EquipmentPath) Cell() *Equipment { return p.atLevel(LevelCell) }

// Parent returns the second-to-last element of the chain, or nil when the
// node is a root.
func (p EquipmentPath) Parent() *Equipment {
	if len(p.Chain) > 1 {
		return &p.Chain[len(p.Chain)-2]
	}
	return nil
}
