/*
Package threadcoord runs two workers, each wired to its own OS thread, behind an in-process
semaphore used as a starting gate.

The semaphore starts at zero, so both workers block on their first acquire.  A single external
trigger releases one token, after which the workers take turns printing their labels, one line per
acquire/release bracket.  A worker that dies while holding the token is not recovered.
*/
package threadcoord
