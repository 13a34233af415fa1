package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/cliquenet/internal/network"
)

// NodeSpec is a node given through flags instead of a document.
type NodeSpec struct {
	Name string
	Type string
	IP   string
	Port int
}

// NodeAdd adds a node to a network, from file when given and from spec otherwise.
func NodeAdd(ctx context.Context, opts *GlobalOptions, networkID, file string, spec NodeSpec) error {
	var data []byte
	if file != "" {
		var err error
		if data, err = readDocument(file); err != nil {
			return err
		}
	}

	return withApp(opts, func(a *app) error {
		ctx := context.WithoutCancel(ctx)
		var (
			n   *network.Network
			err error
		)
		if data != nil {
			n, err = a.controller.AddNodeFromDocument(ctx, networkID, data)
		} else {
			n, err = a.controller.AddNode(ctx, networkID, network.Node{
				Name: spec.Name,
				Type: network.NodeType(spec.Type),
				IP:   spec.IP,
				Port: spec.Port,
			})
		}
		if err != nil {
			return explain(err)
		}
		fmt.Fprint(stdout, renderNetwork(n))
		return nil
	})
}

// NodeRemove removes a node from a network.
func NodeRemove(ctx context.Context, opts *GlobalOptions, networkID, name string) error {
	return withApp(opts, func(a *app) error {
		if _, err := a.controller.RemoveNode(ctx, networkID, name); err != nil {
			return err
		}
		fmt.Fprintln(stdout, successStyle.Render(fmt.Sprintf("Node %s removed from %s", name, networkID)))
		return nil
	})
}
