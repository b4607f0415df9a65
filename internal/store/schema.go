package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	tableLLMRequests  = "llm_request_events"
	tableAttempts     = "attempt_events"
	tableExplanations = "explanation_events"
)

// eventTable starts a table with the columns every event carries: an
// auto-increment id, the global sequence and a UTC timestamp.
func eventTable(name string) *schema.Table {
	return schema.NewTable(name).
		AddPrimary(&schema.Column{Name: "id", Type: field.TypeInt, Increment: true}).
		AddColumn(&schema.Column{Name: "sequence", Type: field.TypeInt64, Unique: true}).
		AddColumn(&schema.Column{Name: "timestamp", Type: field.TypeTime})
}

func stringCol(name string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeString, Default: ""}
}

func intCol(name string, t field.Type) *schema.Column {
	return &schema.Column{Name: name, Type: t, Default: 0}
}

var llmRequestsTable = eventTable(tableLLMRequests).
	AddColumn(stringCol("provider")).
	AddColumn(stringCol("model")).
	AddColumn(stringCol("purpose")).
	AddColumn(intCol("input_tokens", field.TypeInt)).
	AddColumn(intCol("output_tokens", field.TypeInt)).
	AddColumn(intCol("latency_ms", field.TypeInt64)).
	AddColumn(&schema.Column{Name: "success", Type: field.TypeBool}).
	AddColumn(stringCol("error_message")).
	AddColumn(&schema.Column{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""}).
	AddColumn(&schema.Column{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""}).
	AddIndex("llmrequestevent_purpose", false, []string{"purpose"}).
	AddIndex("llmrequestevent_success", false, []string{"success"})

var attemptsTable = eventTable(tableAttempts).
	AddColumn(&schema.Column{Name: "attempt_id", Type: field.TypeString, Unique: true}).
	AddColumn(stringCol("quiz_id")).
	AddColumn(stringCol("title")).
	AddColumn(intCol("score", field.TypeInt)).
	AddColumn(intCol("total", field.TypeInt)).
	AddColumn(intCol("answered", field.TypeInt)).
	AddColumn(intCol("duration_secs", field.TypeInt)).
	AddIndex("attemptevent_quiz_id", false, []string{"quiz_id"})

var explanationsTable = eventTable(tableExplanations).
	AddColumn(stringCol("quiz_id")).
	AddColumn(stringCol("question_id")).
	AddColumn(stringCol("source")).
	AddColumn(&schema.Column{Name: "success", Type: field.TypeBool}).
	AddColumn(intCol("latency_ms", field.TypeInt64)).
	AddColumn(stringCol("error_message")).
	AddIndex("explanationevent_quiz_id_question_id", false, []string{"quiz_id", "question_id"})

var tables = []*schema.Table{
	llmRequestsTable,
	attemptsTable,
	explanationsTable,
}
