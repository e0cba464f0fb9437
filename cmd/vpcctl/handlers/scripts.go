package handlers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/imamik/vpcctl/internal/provisioning"
	"github.com/imamik/vpcctl/internal/util/naming"
)

const scriptFileMode = 0o755

// writeConnectScripts writes one connect_<bastion> helper per node into dir
// and returns their paths in node order.
func writeConnectScripts(dir string, nodes []provisioning.BastionNode) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create script directory %s: %w", dir, err)
	}

	paths := make([]string, 0, len(nodes))
	for _, node := range nodes {
		path := filepath.Join(dir, naming.ConnectScript(node.Name))
		content := "#!/bin/sh\n" + node.ConnectCommand() + "\n"
		// #nosec G306 -- the script must be executable
		if err := os.WriteFile(path, []byte(content), scriptFileMode); err != nil {
			return nil, fmt.Errorf("failed to write connect script for %s: %w", node.Name, err)
		}
		// WriteFile keeps the mode of an existing file and honours the umask.
		if err := os.Chmod(path, scriptFileMode); err != nil {
			return nil, fmt.Errorf("failed to chmod %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
