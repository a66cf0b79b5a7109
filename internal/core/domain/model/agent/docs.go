// Package agent contains the delivery agent aggregate.
//
// An agent is a member of the delivery fleet with a bounded capacity of
// concurrently held orders, a set of served zones, and a performance record
// accumulated from delivery outcomes. The aggregate enforces the capacity
// constraint on every order intake and keeps the active-order set free of
// duplicates.
package agent
