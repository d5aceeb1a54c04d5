// Package network is the read side of the sponsor tree. It computes directs
// counts, network sizes and group shapes without writing anything; the
// auto-pool engine turns its detections into awards.
//
// Every traversal only descends through qualifying directs, meaning children
// holding a package. Recursion is bounded by depth, never by a visited set:
// sponsors are assigned at registration and never reassigned, so the tree is
// acyclic by construction.
package network
