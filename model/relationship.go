package model

// Relationship represents a directed edge between two classes
type Relationship struct {
	ID                    string           `json:"id" yaml:"id"`
	Kind                  RelationshipKind `json:"type" yaml:"type"`
	SourceID              string           `json:"source_id" yaml:"source_id"`
	TargetID              string           `json:"target_id" yaml:"target_id"`
	SourceRole            string           `json:"source_role,omitempty" yaml:"source_role,omitempty"`
	TargetRole            string           `json:"target_role,omitempty" yaml:"target_role,omitempty"`
	SourceMultiplicity    Multiplicity     `json:"source_multiplicity,omitempty" yaml:"source_multiplicity,omitempty"`
	TargetMultiplicity    Multiplicity     `json:"target_multiplicity,omitempty" yaml:"target_multiplicity,omitempty"`
	IsNavigableFromSource bool             `json:"is_navigable_from_source" yaml:"is_navigable_from_source"`
	IsNavigableFromTarget bool             `json:"is_navigable_from_target" yaml:"is_navigable_from_target"`
}

// NewRelationship creates a source navigable relationship with a stable identifier
func NewRelationship(kind RelationshipKind, sourceID, targetID string) *Relationship {
	return &Relationship{
		ID:                    RelationshipID(kind, sourceID, targetID),
		Kind:                  kind,
		SourceID:              sourceID,
		TargetID:              targetID,
		IsNavigableFromSource: true,
	}
}

// Key returns deduplication key
func (r *Relationship) Key() string {
	return r.SourceID + ":" + string(r.Kind) + ":" + r.TargetID
}
