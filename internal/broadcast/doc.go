// Package broadcast fans topic events out to subscribed sessions.
//
// A publish builds one notification envelope, serializes it once, and sends
// it to every subscriber in the topic's current membership snapshot. Dead
// connections are collected during the pass and pruned from the topic and
// the session registry afterwards in one sweep.
package broadcast
