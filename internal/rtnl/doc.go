// Package rtnl encodes and decodes rtnetlink messages: the per-family
// service headers, the type-length-value attribute trees, and the four
// message kinds (link, address, neighbor, route). The Manager type builds
// requests for high-level intents and drives them through an nl.Session.
package rtnl
