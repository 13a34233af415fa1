// Package registry persists the list of network definitions.
//
// The registry is a single JSON document holding an array of networks. It is the only
// durable record of a network; directories and containers can be rebuilt from it.
//
// Writes go through [Registry.AtomicUpdate], which keeps a copy of the previous
// document next to it while the update runs:
//
//  1. copy the registry to <registry>.bak
//  2. read and parse the registry
//  3. apply the mutator
//  4. write the registry
//  5. read it back and check the number of networks
//  6. delete the backup
//
// Any failure after step 1 restores the registry from the backup. There is no
// inter-process lock; two concurrent writers can lose an update.
package registry
