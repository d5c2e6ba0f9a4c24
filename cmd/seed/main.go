package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/betjuliano/sefa-dashboard/internal/model"
	"github.com/betjuliano/sefa-dashboard/internal/schema"
)

// sampleCSV builds a small transparency portal export using the built-in
// schema headers, so the seeded upload resolves without a mapping file.
func sampleCSV() []byte {
	s := schema.DefaultBase8()

	headers := []string{"Idade", "Sexo"}
	for _, dim := range s.Dimensions {
		for _, q := range dim.Questions {
			headers = append(headers, q.Text)
		}
	}
	headers = append(headers, s.SatisfactionQuestion)

	rows := [][]string{
		{"34", "Feminino", "Concordo totalmente", "Concordo", "Concordo", "Indiferente", "Concordo", "Concordo totalmente", "Concordo", "Concordo", "Muito satisfeito"},
		{"52", "Masculino", "Concordo", "Indiferente", "Discordo", "Concordo", "Concordo", "Concordo", "Indiferente", "Concordo", "Satisfeito"},
		{"27", "Feminino", "Discordo", "Discordo totalmente", "Indiferente", "Concordo", "Indiferente", "Concordo", "Concordo", "Discordo", "Indiferente"},
	}

	var b strings.Builder
	b.WriteString(strings.Join(headers, ";"))
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(strings.Join(row, ";"))
		b.WriteString("\n")
	}
	return []byte(b.String())
}

func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	mongoDB := os.Getenv("MONGO_DB")
	if mongoDB == "" {
		mongoDB = "qualidash"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(mongoDB)
	uploadColl := db.Collection("uploads")

	// User ID observed in logs
	userID := "user_8263b93c"

	raw := sampleCSV()
	sum := sha256.Sum256(raw)

	upload := model.UploadRecord{
		ID:          uuid.New().String(),
		UserID:      userID,
		Filename:    "portal_transparencia_demo.csv",
		Fingerprint: hex.EncodeToString(sum[:]),
		SizeBytes:   len(raw),
		RawData:     raw,
		Delimiter:   ";",
		CreatedAt:   time.Now().UTC(),
	}

	_, err = uploadColl.InsertOne(ctx, upload)
	if err != nil {
		log.Fatalf("Failed to insert upload: %v", err)
	}

	fmt.Printf("Successfully created demo upload '%s' for user '%s'\n", upload.Filename, userID)
}
