package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ehealthkit/snoclose/internal/closure"
)

// clusterDef is the per-cluster YAML shape. Two forms are accepted:
//
//	dm_cod: [73211009]                # shorthand, seeds only
//	msk_cod:
//	  seeds: [106028002, 301366005]
//	  exclude: [72696002]
//
// Codes may be written as YAML numbers or strings; both decode to their
// string form.
type clusterDef struct {
	Seeds   []string `yaml:"seeds"`
	Exclude []string `yaml:"exclude"`
}

func (d *clusterDef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		return node.Decode(&d.Seeds)
	}
	type plain clusterDef
	return node.Decode((*plain)(d))
}

// loadClusterConfig reads the cluster configuration file and returns the
// cluster specs in file order, so processing and output follow the order
// the author wrote.
func loadClusterConfig(path string) ([]closure.ClusterSpec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseClusterConfig(raw)
}

func parseClusterConfig(raw []byte) ([]closure.ClusterSpec, error) {
	var doc struct {
		Clusters yaml.Node `yaml:"clusters"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc.Clusters.Kind == 0 {
		return nil, fmt.Errorf("no clusters defined")
	}
	if doc.Clusters.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("clusters must be a mapping of cluster id to seeds")
	}

	// Mapping node content alternates key, value; walking it directly
	// preserves file order, which plain map decoding would lose.
	var specs []closure.ClusterSpec
	seen := make(map[string]bool)
	for i := 0; i+1 < len(doc.Clusters.Content); i += 2 {
		keyNode := doc.Clusters.Content[i]
		valNode := doc.Clusters.Content[i+1]

		id := strings.TrimSpace(keyNode.Value)
		if id == "" {
			return nil, fmt.Errorf("line %d: empty cluster id", keyNode.Line)
		}
		if seen[id] {
			return nil, fmt.Errorf("line %d: duplicate cluster %q", keyNode.Line, id)
		}
		seen[id] = true

		var def clusterDef
		if err := valNode.Decode(&def); err != nil {
			return nil, fmt.Errorf("cluster %q: %w", id, err)
		}

		specs = append(specs, closure.ClusterSpec{
			ID:      id,
			Seeds:   toCodes(def.Seeds),
			Exclude: toCodes(def.Exclude),
		})
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("no clusters defined")
	}
	return specs, nil
}

func toCodes(values []string) []closure.Code {
	out := make([]closure.Code, 0, len(values))
	for _, v := range values {
		out = append(out, closure.Code(v))
	}
	return out
}
