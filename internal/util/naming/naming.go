package naming

import "fmt"

const bootnode = "bootnode"

func VirtualNetwork(network string) string {
	return network
}

func Bootnode(network string) string {
	return fmt.Sprintf("%s-%s", network, bootnode)
}

func Node(network, node string) string {
	return fmt.Sprintf("%s-%s", network, node)
}

// Helper names the one-shot container that runs a setup command for node.
func Helper(network, node string) string {
	return fmt.Sprintf("%s-%s-init", network, node)
}

// Container returns Bootnode for the reserved bootnode name and Node otherwise.
func Container(network, node string) string {
	if node == bootnode {
		return Bootnode(network)
	}
	return Node(network, node)
}
