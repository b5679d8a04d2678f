package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"

	"github.com/veridian-io/mapi-client/pkg/mapi"
)

// maxTableColumns bounds how many attribute columns a listing table shows;
// wide objects are still fully visible through --output json.
const maxTableColumns = 6

func outputPagedResult(result *mapi.PagedResult) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		return encodeJSON(result)
	case OutputFormatYAML:
		return encodeYAML(result)
	default:
		return outputPagedResultTable(result)
	}
}

func outputPagedResultTable(result *mapi.PagedResult) error {
	rows := parseRows(result.Data)

	columns := attributeColumns(rows)
	if len(columns) > maxTableColumns {
		columns = columns[:maxTableColumns]
	}

	header := []any{"ID", "Type"}
	for _, name := range columns {
		header = append(header, name)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header(header...)

	for _, row := range rows {
		values := []any{row.ID, row.Type}
		for _, name := range columns {
			values = append(values, attributeString(row, name))
		}

		_ = table.Append(values...)
	}

	_ = table.Render()

	fmt.Printf("\n%d results\n", result.Fetched)

	if result.Truncated {
		fmt.Println("Result truncated; narrow the filter or raise --max-results.")
	}

	return nil
}

func outputSingle(result *mapi.SingleResponse) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		return encodeJSON(result)
	case OutputFormatYAML:
		return encodeYAML(result)
	default:
		return outputSingleTable(result)
	}
}

func outputSingleTable(result *mapi.SingleResponse) error {
	parsed := parseRows([]json.RawMessage{result.Data})
	if len(parsed) == 0 {
		return encodeJSON(result)
	}

	row := parsed[0]

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("ID", row.ID)
	_ = table.Append("Type", row.Type)

	for _, name := range attributeColumns(parsed) {
		_ = table.Append(name, attributeString(row, name))
	}

	_ = table.Render()

	return nil
}
