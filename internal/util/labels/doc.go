// Package labels provides consistent labeling for docker containers and networks.
//
// All labels use the cliquenet.io domain prefix and follow a builder pattern
// for constructing label sets with network id, node, role and manager
// identification.
package labels
