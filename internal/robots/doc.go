// Package robots loads and evaluates robots.txt rules for the crawl target.
//
// The policy is loaded once at crawl start and is immutable afterwards.
// A robots.txt that cannot be fetched or parsed yields a permissive policy:
// politeness enforcement is best effort and never blocks a run the user
// asked for.
package robots
