// Package mqtt declares the publisher used to broadcast benchmark results.
// infra/mqtt provides the Paho implementation.
package mqtt

import "github.com/kilianp07/fcbench/core/report"

// Publisher broadcasts the rows of a finished run.
type Publisher interface {
	// PublishRows sends one message per report row.
	PublishRows(runID string, tbl *report.Table) error
	Disconnect()
}

// Topic builds the topic of a row: "<prefix>/<validation_id>/<model_id>".
// Characters reserved by MQTT are replaced by underscores.
func Topic(prefix, taskID, estimatorID string) string {
	return prefix + "/" + topicLevel(taskID) + "/" + topicLevel(estimatorID)
}

func topicLevel(s string) string {
	out := []byte(s)
	for i, c := range out {
		switch c {
		case '/', '+', '#':
			out[i] = '_'
		}
	}
	return string(out)
}
