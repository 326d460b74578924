// Package tracker provides the per-endpoint hit counter that drives
// response sequencing. One tracker is owned by one running server instance;
// it is created empty at configure time and discarded on stop.
package tracker
