package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ehealthkit/snoclose/internal/closure"
)

// WriteClusterTxt writes one <cluster>.txt per cluster into dir, creating
// the directory if needed. Each file holds the cluster's codes single-quoted
// and comma-joined, ready for pasting into a query's IN list. Cluster
// order follows first appearance in rows.
func WriteClusterTxt(dir string, rows []closure.Row) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cluster dir: %w", err)
	}

	var order []string
	grouped := make(map[string][]string)
	for _, row := range rows {
		if _, ok := grouped[row.Cluster]; !ok {
			order = append(order, row.Cluster)
		}
		grouped[row.Cluster] = append(grouped[row.Cluster], fmt.Sprintf("'%s'", row.Code))
	}

	for _, cluster := range order {
		path := filepath.Join(dir, cluster+".txt")
		content := strings.Join(grouped[cluster], ",")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		slog.Info("txt file created", "path", path, "codes", len(grouped[cluster]))
	}
	return nil
}
