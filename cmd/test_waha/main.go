package main

import (
	"flag"
	"log"

	"ispdesk_echo/internal/services"

	"github.com/joho/godotenv"
)

func main() {
	phone := flag.String("phone", "", "Phone number (e.g. 0812345678 or 918123456789)")
	msg := flag.String("msg", "Test message from WahaService", "Message body")
	flag.Parse()

	if *phone == "" {
		log.Fatal("Please provide a phone number using -phone flag")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found")
	}

	service := services.NewWahaService()

	log.Printf("Sending message to %s: %s", *phone, *msg)

	// SendMessage normalizes the chat ID itself
	if err := service.SendMessage(*phone, *msg); err != nil {
		log.Fatalf("Failed to send message: %v", err)
	}

	log.Println("Message sent successfully!")
}
