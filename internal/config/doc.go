// Package config defines the network configuration model used by every
// reconciler.
//
// A [NetworkConfig] is read once per invocation from a YAML file named after
// the network (see [Resolve] and [Load]) and is immutable afterwards. The file
// has a global "vpc" section and an ordered "subnets" list; subnets are iterated
// in file order or looked up by name with [NetworkConfig.Subnet].
//
// The package also owns the credentials file ([Credentials]) and the polling
// policy read from the environment ([LoadPollPolicy]).
package config
