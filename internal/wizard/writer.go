package wizard

import (
	"fmt"
	"os"
	"strings"
	"time"

	"sigs.k8s.io/yaml"

	"github.com/imamik/cliquenet/internal/network"
)

// Function variable for dependency injection in tests.
var confirmOverwrite = defaultConfirmOverwrite

// WriteNetwork writes the network definition to a YAML file with a descriptive header.
func WriteNetwork(n *network.Network, outputPath string) error {
	yamlBytes, err := yaml.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal network: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(generateHeader(n.ID, outputPath))
	sb.WriteString("\n")
	sb.Write(yamlBytes)

	if err := os.WriteFile(outputPath, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// generateHeader creates the YAML file header comment.
func generateHeader(id, outputPath string) string {
	return fmt.Sprintf(`# cliquenet network definition: %s
# Generated by: cliquenet init
# Generated at: %s
#
# Usage:
#   cliquenet network create -f %s
#   cliquenet network start %s
`, id, time.Now().Format(time.RFC3339), outputPath, id)
}

// FileExists checks if a file exists at the given path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ConfirmOverwrite prompts the user to confirm overwriting an existing file.
func ConfirmOverwrite(path string) (bool, error) {
	return confirmOverwrite(path)
}

// defaultConfirmOverwrite is the default implementation that prompts via stdin.
func defaultConfirmOverwrite(path string) (bool, error) {
	fmt.Printf("\nFile already exists: %s\n", path)
	fmt.Print("Overwrite? (y/n): ")

	var response string
	if _, err := fmt.Scanln(&response); err != nil {
		return false, err
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}
