// Command tokengen issues and inspects tokens with the service's configured secret.
package main

func main() {
	Execute()
}
