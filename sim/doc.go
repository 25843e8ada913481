// Package sim drives an intersection.Controller with many concurrent
// vehicles, one goroutine each, and checks while running that no two
// residents ever have crossing routes.
package sim
