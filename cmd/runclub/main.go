// Command runclub serves the running club admin API and runs one-off
// maintenance tasks against the same database.
package main

func main() {
	Execute()
}
