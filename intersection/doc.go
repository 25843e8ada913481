// Package intersection provides admission control for a shared four-way
// intersection. Vehicles call Enter before crossing and Leave afterwards; the
// Controller blocks an arriving vehicle until its route is compatible with
// every vehicle already inside, so no two residents ever have crossing paths.
package intersection
