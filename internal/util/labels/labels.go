package labels

// Standard label keys for docker objects.
const (
	// KeyNetwork identifies which chain network an object belongs to
	KeyNetwork = "cliquenet.io/network"

	// KeyNode identifies the node a container runs
	KeyNode = "cliquenet.io/node"

	// KeyRole identifies the role of a node (miner, rpc, normal, bootnode)
	KeyRole = "cliquenet.io/role"

	// KeyManagedBy identifies the management system
	KeyManagedBy = "cliquenet.io/managed-by"

	// KeyProject carries the free-form project description of the virtual network
	KeyProject = "project"
)

// ManagedByCliquenet is the KeyManagedBy value of every object we create.
const ManagedByCliquenet = "cliquenet"

// LabelBuilder provides a fluent interface for building docker object labels.
type LabelBuilder struct {
	labels map[string]string
}

// NewLabelBuilder creates a new label builder with the network id pre-set.
func NewLabelBuilder(networkID string) *LabelBuilder {
	return &LabelBuilder{
		labels: map[string]string{
			KeyNetwork:   networkID,
			KeyManagedBy: ManagedByCliquenet,
		},
	}
}

// WithNode adds the node name label.
func (lb *LabelBuilder) WithNode(node string) *LabelBuilder {
	lb.labels[KeyNode] = node
	return lb
}

// WithRole adds a role label.
func (lb *LabelBuilder) WithRole(role string) *LabelBuilder {
	lb.labels[KeyRole] = role
	return lb
}

// WithProject adds the project description label used on virtual networks.
func (lb *LabelBuilder) WithProject(networkID string) *LabelBuilder {
	lb.labels[KeyProject] = networkID + " private ethnetwork"
	return lb
}

// Merge adds all labels from the provided map.
func (lb *LabelBuilder) Merge(extra map[string]string) *LabelBuilder {
	for k, v := range extra {
		lb.labels[k] = v
	}
	return lb
}

// Build returns a copy of the labels map.
func (lb *LabelBuilder) Build() map[string]string {
	result := make(map[string]string, len(lb.labels))
	for k, v := range lb.labels {
		result[k] = v
	}
	return result
}

// SelectorForNetwork returns a label filter matching every object of a network.
func SelectorForNetwork(networkID string) string {
	return KeyNetwork + "=" + networkID
}
