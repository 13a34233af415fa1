package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/cliquenet/internal/network"
	"github.com/imamik/cliquenet/internal/wizard"
)

// Factory function variables for init - can be replaced in tests.
var (
	runWizard        = wizard.RunWizard
	writeNetwork     = wizard.WriteNetwork
	fileExists       = wizard.FileExists
	confirmOverwrite = wizard.ConfirmOverwrite
)

// Init runs the network wizard and writes the resulting definition to outputPath.
func Init(ctx context.Context, outputPath string) error {
	if fileExists(outputPath) {
		ok, err := confirmOverwrite(outputPath)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(stdout, "Aborted.")
			return nil
		}
	}

	printWelcome()

	result, err := runWizard(ctx)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	n, err := wizard.BuildNetwork(result)
	if err != nil {
		return err
	}

	if err := writeNetwork(n, outputPath); err != nil {
		return fmt.Errorf("failed to write network definition: %w", err)
	}

	printInitSuccess(outputPath, n)
	return nil
}

func printWelcome() {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, titleStyle.Render("cliquenet - private proof-of-authority networks"))
	fmt.Fprintln(stdout, dimStyle.Render("This wizard writes a network definition you can review before provisioning."))
	fmt.Fprintln(stdout)
}

func printInitSuccess(outputPath string, n *network.Network) {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, successStyle.Render("Network definition saved!"))
	fmt.Fprintf(stdout, "  File: %s\n", outputPath)
	fmt.Fprint(stdout, renderNetwork(n))
	fmt.Fprintln(stdout, sectionStyle.Render("Next Steps"))
	fmt.Fprintf(stdout, "  1. Review %s if needed\n", outputPath)
	fmt.Fprintf(stdout, "  2. cliquenet network create -f %s\n", outputPath)
	fmt.Fprintf(stdout, "  3. cliquenet network start %s\n", n.ID)
	fmt.Fprintln(stdout)
}
