// Package kernel contains shared value objects used across all domain aggregates.
//
// The kernel holds domain primitives that carry no aggregate-specific behavior:
//
//   - UUID: immutable identifier for entities and aggregates
//   - Money: monetary amount in minor units with safe arithmetic
//
// All kernel types are value objects: immutable, validated on construction,
// and compared by value. They must be created through their factory functions;
// zero values fail Validate.
package kernel
