package apisvc

import (
	"context"

	"github.com/trezcool/masomo-dashboard/core/school"
)

func (c *Client) ListRelationships(ctx context.Context, filter school.RelationshipFilter) ([]school.Relationship, error) {
	var rels []school.Relationship
	err := c.get(ctx, "relationships", filter.Query(), &rels)
	return rels, err
}

func (c *Client) CreateRelationship(ctx context.Context, nr school.NewRelationship) (school.Relationship, error) {
	var rel school.Relationship
	err := c.post(ctx, "relationships", nr, &rel)
	return rel, err
}

func (c *Client) DeleteRelationship(ctx context.Context, id string) error {
	return c.delete(ctx, path("relationships", id))
}
