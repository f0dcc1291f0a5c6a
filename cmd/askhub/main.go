// Package main is the entry point for the askhub front server.
package main

func main() {
	Execute()
}
