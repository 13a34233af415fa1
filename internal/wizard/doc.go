// Package wizard provides an interactive network definition wizard.
//
// RunWizard asks for the identity, topology and genesis allocations of a network
// using charmbracelet/huh forms and returns a WizardResult. BuildNetwork turns the
// answers into a network definition with addresses assigned from the subnet, and
// WriteNetwork stores it as a YAML document accepted by "cliquenet network create".
package wizard
