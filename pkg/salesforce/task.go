package salesforce

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// maxBatchSize is the Salesforce Collections API limit per request.
const maxBatchSize = 200

// Contact represents a Salesforce Contact record.
type Contact struct {
	ID        string `json:"Id" salesforce:"Id"`
	FirstName string `json:"FirstName" salesforce:"FirstName"`
	LastName  string `json:"LastName" salesforce:"LastName"`
	Email     string `json:"Email" salesforce:"Email"`
	Phone     string `json:"Phone" salesforce:"Phone"`
	AccountID string `json:"AccountId" salesforce:"AccountId"`
}

// contactFields are the SOQL fields selected for Contact queries.
var contactFields = []string{
	"Id", "FirstName", "LastName", "Email", "Phone", "AccountId",
}

// FindContactByEmail queries Salesforce for a Contact matching the given email.
// Returns nil if no contact is found.
func FindContactByEmail(ctx context.Context, c Client, email string) (*Contact, error) {
	if email == "" {
		return nil, nil
	}
	soql := fmt.Sprintf(
		"SELECT %s FROM Contact WHERE Email = '%s' LIMIT 1",
		strings.Join(contactFields, ", "),
		escapeSoql(email),
	)

	var contacts []Contact
	if err := c.Query(ctx, soql, &contacts); err != nil {
		return nil, eris.Wrapf(err, "salesforce: find contact by email %s", email)
	}
	if len(contacts) == 0 {
		return nil, nil
	}
	return &contacts[0], nil
}

// CreateTask creates a new Task record and returns the new Salesforce ID.
func CreateTask(ctx context.Context, c Client, fields map[string]any) (string, error) {
	if fields["Subject"] == nil || fields["Subject"] == "" {
		return "", eris.New("salesforce: task Subject is required")
	}
	id, err := c.InsertOne(ctx, "Task", fields)
	if err != nil {
		return "", eris.Wrap(err, "salesforce: create task")
	}
	return id, nil
}

// BulkInsertTasks splits task records into batches of 200 (SF Collections API
// limit) and sends them via InsertCollection.
func BulkInsertTasks(ctx context.Context, c Client, records []map[string]any) ([]RecordResult, error) {
	if len(records) == 0 {
		return nil, nil
	}

	var allResults []RecordResult

	for start := 0; start < len(records); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		results, err := c.InsertCollection(ctx, "Task", batch)
		if err != nil {
			return allResults, eris.Wrapf(err, "salesforce: bulk insert tasks batch %d-%d", start, end)
		}
		allResults = append(allResults, results...)
	}

	return allResults, nil
}

// escapeSoql escapes single quotes in SOQL string literals to prevent injection.
func escapeSoql(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}
