package main

import (
	"fmt"
	"net/http"
	"os"
	"time"
)

// healthURL builds the probe URL from the PORT environment variable the
// service itself is configured with, defaulting to 8080.
func healthURL() string {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return "http://localhost:" + port + "/api/health"
}

func main() {
	url := healthURL()
	totalWaitTime := 0
	for {
		res, err := http.Get(url)
		if err == nil {
			if res.StatusCode == http.StatusOK {
				fmt.Println(res)
				break
			} else {
				fmt.Println(res)
			}
		} else {
			fmt.Println(err)
		}
		totalWaitTime += 5
		fmt.Printf("Waiting %d seconds", totalWaitTime)
		fmt.Println()
		time.Sleep(5 * time.Second)
	}
}
