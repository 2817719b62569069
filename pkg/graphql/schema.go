package graphql

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/graphql-go/graphql"

	"github.com/dd0wney/capability-graph/pkg/algorithms"
	"github.com/dd0wney/capability-graph/pkg/query"
	"github.com/dd0wney/capability-graph/pkg/storage"
)

// DefaultPathDepth bounds the path query when maxDepth is omitted
const DefaultPathDepth = 5

// schemaBuilder holds the object types shared between fields
type schemaBuilder struct {
	qb    *query.QueryBuilder
	graph *storage.GraphStorage

	entity       *graphql.Object
	relationship *graphql.Object
	typeCount    *graphql.Object
}

// GenerateSchema builds a read-only GraphQL schema over the query builder
func GenerateSchema(qb *query.QueryBuilder) (graphql.Schema, error) {
	b := &schemaBuilder{qb: qb, graph: qb.Graph()}
	b.typeCount = graphql.NewObject(graphql.ObjectConfig{
		Name: "TypeCount",
		Fields: graphql.Fields{
			"type":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"count": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})
	b.entity = b.entityType()
	b.relationship = b.relationshipType()

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Query",
		Fields: b.queryFields(),
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to create schema: %w", err)
	}
	return schema, nil
}

// typeCounts flattens a count map into rows sorted by type
type typeCountRow struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

func typeCounts(counts map[string]int) []typeCountRow {
	rows := make([]typeCountRow, 0, len(counts))
	for t, c := range counts {
		rows = append(rows, typeCountRow{Type: t, Count: c})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Type < rows[j].Type })
	return rows
}

func sourceNode(p graphql.ResolveParams) (*storage.Node, bool) {
	n, ok := p.Source.(*storage.Node)
	return n, ok && n != nil
}

func (b *schemaBuilder) entityType() *graphql.Object {
	nodeField := func(fn func(*storage.Node) any) graphql.FieldResolveFn {
		return func(p graphql.ResolveParams) (any, error) {
			if n, ok := sourceNode(p); ok {
				return fn(n), nil
			}
			return nil, nil
		}
	}

	return graphql.NewObject(graphql.ObjectConfig{
		Name:        "Entity",
		Description: "A catalog entity",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id": &graphql.Field{
					Type:    graphql.NewNonNull(graphql.ID),
					Resolve: nodeField(func(n *storage.Node) any { return n.ID }),
				},
				"type": &graphql.Field{
					Type:    graphql.NewNonNull(graphql.String),
					Resolve: nodeField(func(n *storage.Node) any { return string(n.Type) }),
				},
				"name": &graphql.Field{
					Type:    graphql.String,
					Resolve: nodeField(func(n *storage.Node) any { return n.Name() }),
				},
				"description": &graphql.Field{
					Type:    graphql.String,
					Resolve: nodeField(func(n *storage.Node) any { return n.Common().Description }),
				},
				"category": &graphql.Field{
					Type:    graphql.String,
					Resolve: nodeField(func(n *storage.Node) any { return n.Common().Category }),
				},
				"order": &graphql.Field{
					Type:    graphql.Int,
					Resolve: nodeField(func(n *storage.Node) any { return n.Common().Order }),
				},
				"tags": &graphql.Field{
					Type:    graphql.NewList(graphql.String),
					Resolve: nodeField(func(n *storage.Node) any { return n.Common().Tags }),
				},
				"data": &graphql.Field{
					Type:        graphql.String,
					Description: "Type-specific attributes as JSON",
					Resolve: func(p graphql.ResolveParams) (any, error) {
						n, ok := sourceNode(p)
						if !ok || n.Data == nil {
							return nil, nil
						}
						raw, err := json.Marshal(n.Data)
						if err != nil {
							return nil, err
						}
						return string(raw), nil
					},
				},
				"pillars": &graphql.Field{
					Type: graphql.NewList(graphql.String),
					Resolve: nodeField(func(n *storage.Node) any {
						pillars, _ := b.graph.GetPillarAssociation(n.ID)
						return pillars
					}),
				},
				"edges": &graphql.Field{
					Type:    graphql.NewList(b.relationship),
					Resolve: nodeField(func(n *storage.Node) any { return b.graph.GetEdges(n.ID) }),
				},
				"reverseEdges": &graphql.Field{
					Type:    graphql.NewList(b.relationship),
					Resolve: nodeField(func(n *storage.Node) any { return b.graph.GetReverseEdges(n.ID) }),
				},
				"related": &graphql.Field{
					Type: graphql.NewList(b.entity),
					Args: graphql.FieldConfigArgument{
						"relationship": &graphql.ArgumentConfig{Type: graphql.String},
						"direction":    &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: "forward"},
					},
					Resolve: func(p graphql.ResolveParams) (any, error) {
						n, ok := sourceNode(p)
						if !ok {
							return nil, nil
						}
						dir, err := storage.ParseDirection(stringArg(p, "direction"))
						if err != nil {
							return nil, err
						}
						rel := storage.RelationshipType(stringArg(p, "relationship"))
						return b.graph.FindRelated(n.ID, rel, dir), nil
					},
				},
			}
		}),
	})
}

func (b *schemaBuilder) relationshipType() *graphql.Object {
	edgeField := func(fn func(*storage.Edge) any) graphql.FieldResolveFn {
		return func(p graphql.ResolveParams) (any, error) {
			if e, ok := p.Source.(*storage.Edge); ok && e != nil {
				return fn(e), nil
			}
			return nil, nil
		}
	}
	nodeOrNil := func(id string) any {
		if n, ok := b.graph.GetNode(id); ok {
			return n
		}
		return nil
	}

	return graphql.NewObject(graphql.ObjectConfig{
		Name:        "Relationship",
		Description: "A directed, typed edge",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id":   &graphql.Field{Type: graphql.ID, Resolve: edgeField(func(e *storage.Edge) any { return e.ID })},
				"from": &graphql.Field{Type: graphql.NewNonNull(graphql.String), Resolve: edgeField(func(e *storage.Edge) any { return e.From })},
				"to":   &graphql.Field{Type: graphql.NewNonNull(graphql.String), Resolve: edgeField(func(e *storage.Edge) any { return e.To })},
				"type": &graphql.Field{Type: graphql.NewNonNull(graphql.String), Resolve: edgeField(func(e *storage.Edge) any { return string(e.Type) })},
				"label": &graphql.Field{
					Type:    graphql.String,
					Resolve: edgeField(func(e *storage.Edge) any { return e.Type.Label() }),
				},
				"reverseLabel": &graphql.Field{
					Type:    graphql.String,
					Resolve: edgeField(func(e *storage.Edge) any { return e.Type.ReverseLabel() }),
				},
				"weight": &graphql.Field{Type: graphql.Float, Resolve: edgeField(func(e *storage.Edge) any { return e.Weight })},
				"source": &graphql.Field{
					Type:    b.entity,
					Resolve: edgeField(func(e *storage.Edge) any { return nodeOrNil(e.From) }),
				},
				"target": &graphql.Field{
					Type:    b.entity,
					Resolve: edgeField(func(e *storage.Edge) any { return nodeOrNil(e.To) }),
				},
			}
		}),
	})
}

func stringArg(p graphql.ResolveParams, name string) string {
	s, _ := p.Args[name].(string)
	return s
}

func intArg(p graphql.ResolveParams, name string, def int) int {
	if v, ok := p.Args[name].(int); ok {
		return v
	}
	return def
}

func (b *schemaBuilder) queryFields() graphql.Fields {
	entityList := graphql.NewList(b.entity)

	searchHit := graphql.NewObject(graphql.ObjectConfig{
		Name: "SearchHit",
		Fields: graphql.Fields{
			"entity": &graphql.Field{
				Type: b.entity,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(storage.SearchResult).Node, nil
				},
			},
			"score": &graphql.Field{Type: graphql.Float},
		},
	})

	capabilities := graphql.NewObject(graphql.ObjectConfig{
		Name: "PillarCapabilities",
		Fields: graphql.Fields{
			"pillar":       &graphql.Field{Type: b.entity},
			"coes":         &graphql.Field{Type: entityList},
			"ipAssets":     &graphql.Field{Type: entityList},
			"technologies": &graphql.Field{Type: entityList},
			"coeCount": &graphql.Field{Type: graphql.Int, Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(*query.PillarCapabilityMap).Metrics.CoECount, nil
			}},
			"assetCount": &graphql.Field{Type: graphql.Int, Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(*query.PillarCapabilityMap).Metrics.AssetCount, nil
			}},
			"technologyCount": &graphql.Field{Type: graphql.Int, Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(*query.PillarCapabilityMap).Metrics.TechnologyCount, nil
			}},
		},
	})

	relatedEdge := graphql.NewObject(graphql.ObjectConfig{
		Name: "RelatedEdge",
		Fields: graphql.Fields{
			"from": &graphql.Field{Type: graphql.String},
			"to":   &graphql.Field{Type: graphql.String},
			"type": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (any, error) {
				return string(p.Source.(query.RelatedEdge).Type), nil
			}},
		},
	})
	related := graphql.NewObject(graphql.ObjectConfig{
		Name: "RelatedEntities",
		Fields: graphql.Fields{
			"nodes": &graphql.Field{Type: entityList},
			"edges": &graphql.Field{Type: graphql.NewList(relatedEdge)},
		},
	})

	statistics := graphql.NewObject(graphql.ObjectConfig{
		Name: "Statistics",
		Fields: graphql.Fields{
			"totalNodes":     &graphql.Field{Type: graphql.Int},
			"totalEdges":     &graphql.Field{Type: graphql.Int},
			"avgConnections": &graphql.Field{Type: graphql.Float},
			"nodesByType": &graphql.Field{
				Type: graphql.NewList(b.typeCount),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return typeCounts(p.Source.(storage.GraphStatistics).NodesByType), nil
				},
			},
		},
	})

	pillarSummary := graphql.NewObject(graphql.ObjectConfig{
		Name: "PillarSummary",
		Fields: graphql.Fields{
			"pillar": &graphql.Field{Type: b.entity},
			"total":  &graphql.Field{Type: graphql.Int},
			"counts": &graphql.Field{
				Type: graphql.NewList(b.typeCount),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return typeCounts(p.Source.(storage.PillarSummary).Counts), nil
				},
			},
		},
	})

	industrySummary := graphql.NewObject(graphql.ObjectConfig{
		Name: "IndustrySummary",
		Fields: graphql.Fields{
			"industry":     &graphql.Field{Type: b.entity},
			"caseStudies":  &graphql.Field{Type: entityList},
			"coes":         &graphql.Field{Type: entityList},
			"platforms":    &graphql.Field{Type: entityList},
			"accelerators": &graphql.Field{Type: entityList},
			"totalSolutions": &graphql.Field{Type: graphql.Int, Resolve: func(p graphql.ResolveParams) (any, error) {
				return p.Source.(*query.IndustrySummary).Metrics.TotalSolutions, nil
			}},
		},
	})

	return graphql.Fields{
		"health": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return "ok", nil
			},
		},
		"entity": &graphql.Field{
			Type: b.entity,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if n, ok := b.graph.GetNode(stringArg(p, "id")); ok {
					return n, nil
				}
				return nil, nil
			},
		},
		"entities": &graphql.Field{
			Type: entityList,
			Args: graphql.FieldConfigArgument{
				"type":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"category": &graphql.ArgumentConfig{Type: graphql.String},
				"sorted":   &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: true},
			},
			Resolve: func(p graphql.ResolveParams) (any, error) {
				t := storage.EntityType(stringArg(p, "type"))
				if !t.Valid() {
					return nil, fmt.Errorf("unknown entity type %q", t)
				}
				nodes := b.graph.FindByType(t)
				if category := stringArg(p, "category"); category != "" {
					filtered := nodes[:0:0]
					for _, n := range nodes {
						if n.Common().Category == category {
							filtered = append(filtered, n)
						}
					}
					nodes = filtered
				}
				if sorted, _ := p.Args["sorted"].(bool); sorted {
					storage.SortByOrderThenName(nodes)
				}
				return nodes, nil
			},
		},
		"search": &graphql.Field{
			Type: graphql.NewList(searchHit),
			Args: graphql.FieldConfigArgument{
				"query": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"limit": &graphql.ArgumentConfig{Type: graphql.Int},
			},
			Resolve: func(p graphql.ResolveParams) (any, error) {
				hits := b.graph.SearchScored(stringArg(p, "query"))
				if limit := intArg(p, "limit", 0); limit > 0 && len(hits) > limit {
					hits = hits[:limit]
				}
				return hits, nil
			},
		},
		"pillarCapabilities": &graphql.Field{
			Type: capabilities,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if caps, ok := b.qb.GetPillarCapabilities(stringArg(p, "id")); ok {
					return caps, nil
				}
				return nil, nil
			},
		},
		"related": &graphql.Field{
			Type: related,
			Args: graphql.FieldConfigArgument{
				"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				"depth": &graphql.ArgumentConfig{Type: graphql.Int},
			},
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return b.qb.GetRelatedEntities(stringArg(p, "id"), intArg(p, "depth", 0)), nil
			},
		},
		"path": &graphql.Field{
			Type:        entityList,
			Description: "A path of at most maxDepth hops, or null",
			Args: graphql.FieldConfigArgument{
				"from":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				"to":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				"maxDepth": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: DefaultPathDepth},
			},
			Resolve: func(p graphql.ResolveParams) (any, error) {
				path, ok := b.graph.GetPath(stringArg(p, "from"), stringArg(p, "to"), intArg(p, "maxDepth", DefaultPathDepth))
				if !ok {
					return nil, nil
				}
				return path, nil
			},
		},
		"shortestPath": &graphql.Field{
			Type:        entityList,
			Description: "A path with the fewest hops, or null",
			Args: graphql.FieldConfigArgument{
				"from": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				"to":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (any, error) {
				ids, ok := algorithms.ShortestPath(b.graph, stringArg(p, "from"), stringArg(p, "to"))
				if !ok {
					return nil, nil
				}
				nodes := make([]*storage.Node, 0, len(ids))
				for _, id := range ids {
					if n, ok := b.graph.GetNode(id); ok {
						nodes = append(nodes, n)
					}
				}
				return nodes, nil
			},
		},
		"statistics": &graphql.Field{
			Type: statistics,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return b.graph.GetStatistics(), nil
			},
		},
		"pillarAssociation": &graphql.Field{
			Type: graphql.NewList(graphql.String),
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if pillars, ok := b.graph.GetPillarAssociation(stringArg(p, "id")); ok {
					return pillars, nil
				}
				return nil, nil
			},
		},
		"pillarSummaries": &graphql.Field{
			Type: graphql.NewList(pillarSummary),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return b.graph.GetPillarSummaries(), nil
			},
		},
		"caseStudies": &graphql.Field{
			Type: entityList,
			Args: graphql.FieldConfigArgument{
				"entityId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (any, error) {
				return b.qb.GetCaseStudies(stringArg(p, "entityId")), nil
			},
		},
		"industrySummary": &graphql.Field{
			Type: industrySummary,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if s, ok := b.qb.GetIndustrySummary(stringArg(p, "id")); ok {
					return s, nil
				}
				return nil, nil
			},
		},
	}
}
