package main

import (
	"compress/gzip"
	"crypto/rand"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Generates gzipped sample code files for exercising the bulk discount
// import endpoint. Each file holds one code per line; a few codes are shared
// across files to exercise deduplication.
func main() {
	dataDir := "data/discounts"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	shared := []string{"WELCOME10", "SUMMERSALE", "LOYALTY5"}

	files := map[string]int{
		"discountbase1.gz": 100,
		"discountbase2.gz": 250,
		"discountbase3.gz": 50,
	}

	for filename, count := range files {
		filePath := filepath.Join(dataDir, filename)

		codes := make([]string, 0, count+len(shared))
		codes = append(codes, shared...)
		for i := 0; i < count; i++ {
			codes = append(codes, randomCode(10))
		}

		if err := createCodeFile(filePath, codes); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		fmt.Printf("Created %s with %d codes\n", filePath, len(codes))
	}

	fmt.Println("\nSample discount code files created successfully!")
	fmt.Printf("Codes %v appear in every file and import exactly once.\n", shared)
}

func randomCode(length int) string {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		log.Fatalf("Failed to read random bytes: %v", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf)
}

func createCodeFile(filePath string, codes []string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	for _, code := range codes {
		if _, err := fmt.Fprintf(gzipWriter, "%s\n", code); err != nil {
			return fmt.Errorf("failed to write code: %w", err)
		}
	}

	return nil
}
