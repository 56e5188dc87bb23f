// Package handler is the first layer behind the router.
//
// Every handler here follows the admission contract: it receives the Echo
// context and the admitted payload (nil when the route does not require JSON
// admission). Typed endpoints bind the payload into a request struct with the
// validation package before any endpoint code runs.
package handler
