// Package testing provides test utilities, builders, and fixtures for unit and integration tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - ConfigBuilder: Fluent builder for creating test network configurations
//   - CloudFixture: In-memory cloud, key store, and recording observer wired into a provisioning context
//   - MockObserver: Shared recording observer for asserting on emitted events
//   - MockShell: testify mock of a bastion's remote shell
//
// Usage:
//
//	cfg := testing.NewConfigBuilder().
//	    WithName("test-net").
//	    WithSubnet("public-a", "10.0.1.0/24", "eu-west-1a", "bastion-a").
//	    Build()
//
//	fixture := testing.NewCloudFixture(t)
//	pCtx := fixture.Context(ctx, cfg)
package testing
