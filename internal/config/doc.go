// Package config holds the runtime configuration shared by every component: where
// network state lives on disk, which client images to run, and the startup delays
// between containers.
//
// [Load] builds a [Config] once at startup from defaults, an optional YAML file and
// environment overrides, in that order. The same package owns the on-disk layout
// helpers ([Config.NetworkDir], [Config.NodeDir]) so every component agrees on paths.
//
// # Environment Variables
//
//   - CLIQUENET_BASE_DIR: root of all state (default: ./data)
//   - CLIQUENET_CLIENT_IMAGE: client image (default: ethereum/client-go:v1.13.15)
//   - CLIQUENET_TOOLS_IMAGE: image providing the bootnode binary (default: ethereum/client-go:alltools-v1.13.15)
//   - CLIQUENET_BOOTNODE_SETTLE: wait after starting the bootnode (default: 5s)
//   - CLIQUENET_NODE_START_DELAY: wait between node starts (default: 2s)
//   - CLIQUENET_PULL_RETRIES: image pull retries (default: 3)
//   - DOCKER_HOST: engine endpoint (default: the docker client default)
package config
