// Package genesis builds the genesis document for a clique (proof-of-authority)
// network.
//
// Build is deterministic: the same network and signer list always produce the same
// document, byte for byte once marshalled. The first account passed to Build is the
// faucet; it receives a large fixed balance and is not a signer. The remaining accounts
// are the miners' signers and are embedded in the extradata field.
package genesis
