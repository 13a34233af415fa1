package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/imamik/cliquenet/internal/provisioning"
)

// NetworkList prints every registered network.
func NetworkList(_ context.Context, opts *GlobalOptions) error {
	return withApp(opts, func(a *app) error {
		networks, err := a.controller.ListNetworks()
		if err != nil {
			return err
		}
		fmt.Fprint(stdout, renderNetworkList(networks))
		return nil
	})
}

// NetworkGet prints one network definition.
func NetworkGet(_ context.Context, opts *GlobalOptions, id string) error {
	return withApp(opts, func(a *app) error {
		n, err := a.controller.GetNetwork(id)
		if err != nil {
			return err
		}
		fmt.Fprint(stdout, renderNetwork(n))
		return nil
	})
}

// NetworkGenesis prints the genesis document of a network as JSON.
func NetworkGenesis(_ context.Context, opts *GlobalOptions, id string) error {
	return withApp(opts, func(a *app) error {
		g, err := a.controller.GetGenesis(id)
		if err != nil {
			return err
		}
		data, err := g.JSON()
		if err != nil {
			return err
		}
		_, err = stdout.Write(data)
		return err
	})
}

// NetworkCreate provisions the network described in file.
//
// The create saga is not interrupted by the caller's context: once started it
// either completes or rolls back.
func NetworkCreate(ctx context.Context, opts *GlobalOptions, file string) error {
	data, err := readDocument(file)
	if err != nil {
		return err
	}
	return withApp(opts, func(a *app) error {
		res, err := a.controller.CreateNetworkFromDocument(context.WithoutCancel(ctx), data)
		if err != nil {
			return explain(err)
		}
		fmt.Fprint(stdout, renderCreated(res))
		return nil
	})
}

// NetworkEdit applies the definition in file to a stopped network.
func NetworkEdit(ctx context.Context, opts *GlobalOptions, id, file string) error {
	data, err := readDocument(file)
	if err != nil {
		return err
	}
	return withApp(opts, func(a *app) error {
		res, err := a.controller.EditNetworkFromDocument(context.WithoutCancel(ctx), id, data)
		if err != nil {
			return explain(err)
		}
		fmt.Fprint(stdout, renderCreated(res))
		return nil
	})
}

// NetworkStart starts a network.
func NetworkStart(ctx context.Context, opts *GlobalOptions, id string) error {
	return withApp(opts, func(a *app) error {
		if err := a.controller.StartNetwork(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(stdout, successStyle.Render(fmt.Sprintf("Network %s started", id)))
		return nil
	})
}

// NetworkStop stops a network.
func NetworkStop(ctx context.Context, opts *GlobalOptions, id string) error {
	return withApp(opts, func(a *app) error {
		if err := a.controller.StopNetwork(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(stdout, successStyle.Render(fmt.Sprintf("Network %s stopped", id)))
		return nil
	})
}

// NetworkDelete removes a network with all its containers and files.
func NetworkDelete(ctx context.Context, opts *GlobalOptions, id string) error {
	return withApp(opts, func(a *app) error {
		if err := a.controller.DeleteNetwork(context.WithoutCancel(ctx), id); err != nil {
			return err
		}
		fmt.Fprintln(stdout, successStyle.Render(fmt.Sprintf("Network %s deleted", id)))
		return nil
	})
}

// NetworkStatus prints the container states of a network.
func NetworkStatus(ctx context.Context, opts *GlobalOptions, id string) error {
	return withApp(opts, func(a *app) error {
		status, err := a.controller.NetworkStatus(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprint(stdout, renderStatus(status))
		return nil
	})
}

func readDocument(file string) ([]byte, error) {
	if file == "-" {
		return io.ReadAll(os.Stdin)
	}
	// #nosec G304
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}
	return data, nil
}

// explain renders validation failures as a list before returning them.
func explain(err error) error {
	var failure *provisioning.ValidationFailure
	if errors.As(err, &failure) {
		fmt.Fprint(stdout, renderValidationFailure(failure))
		return fmt.Errorf("network definition rejected with %d errors", len(failure.Errors))
	}
	return err
}
