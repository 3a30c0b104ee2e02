package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
)

// Drives the checkout flow against a running server: creates a PayPal
// order for an item, then optionally captures it with a known order id.
// Useful against the sandbox environment where orders can be approved by
// hand in the PayPal UI between the two steps.
func main() {
	base := flag.String("base", "http://localhost:8080", "Server base URL")
	itemID := flag.String("item", "", "Item id (record UUID or bond code)")
	fee := flag.Float64("fee", 0, "Fee in USD")
	orderID := flag.String("capture", "", "Capture this order id instead of creating")
	pickup := flag.Bool("pickup", false, "Pickup order (no shipping)")
	flag.Parse()

	if *itemID == "" || *fee <= 0 {
		fmt.Fprintln(os.Stderr, "usage: mockcheckout -item <id> -fee <amount> [-capture <order_id>] [-pickup]")
		os.Exit(2)
	}

	if *orderID != "" {
		post(*base+"/capture-order/"+*orderID, map[string]any{
			"item_id": *itemID,
			"fee":     *fee,
			"pickup":  *pickup,
		})
		return
	}

	post(*base+"/create-order", map[string]any{
		"item_id": *itemID,
		"fee":     *fee,
	})
}

func post(url string, payload map[string]any) {
	body, err := json.Marshal(payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal: %v\n", err)
		os.Exit(1)
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	out, _ := io.ReadAll(resp.Body)
	fmt.Printf("%s %d\n%s\n", url, resp.StatusCode, out)
	if resp.StatusCode >= 400 {
		os.Exit(1)
	}
}
