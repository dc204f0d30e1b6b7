package store

const executionsTable = "executions"

// executionColumns are selected in the order scanExecution reads them.
var executionColumns = []string{
	"id",
	"job_id",
	"kind",
	"job_rank",
	"forced",
	"status",
	"error",
	"created_at",
	"started_at",
	"finished_at",
}
