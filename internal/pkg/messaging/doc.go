// Package messaging publishes domain events to a broker.
//
// Usecases depend on Publisher only, so the broker (NATS, Kafka, or none
// at all) is a configuration choice made in the app wiring.
package messaging
