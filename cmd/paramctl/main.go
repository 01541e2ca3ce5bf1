package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/opsline/paramstore/cmd/paramctl/client"
	"github.com/opsline/paramstore/models/param"
)

func init() {
	if err := godotenv.Load(".env"); err != nil {
		log.Default().Println("No .env file found, using environment as-is")
	}
}

func main() {
	c := client.NewParamStoreApiClient()
	c.SetToken(os.Getenv("PARAMSTORE_API_TOKEN"))

	// Filter inputs arrive as raw maps here; CreateParameterStringFilter
	// normalizes them and rejects clauses without a Key.
	filters, err := param.NormalizeFilters(describeFilters())
	if err != nil {
		log.Default().Fatal(err)
	}

	err = c.DescribeParametersPages(&param.DescribeParametersRequest{
		ParameterFilters: filters,
		MaxResults:       20,
	}, func(resp *param.DescribeParametersResponse) bool {
		for _, p := range resp.Parameters {
			if jsonData, err := json.MarshalIndent(p, "", "  "); err == nil {
				fmt.Println(string(jsonData))
			}
		}
		return true
	})
	if err != nil {
		log.Default().Fatal(err)
	}

	path := os.Getenv("PARAMSTORE_PATH")
	if path == "" {
		return
	}

	resp, err := c.GetParametersByPath(&param.GetParametersByPathRequest{
		Path:      path,
		Recursive: os.Getenv("PARAMSTORE_RECURSIVE") == "true",
	})
	if err != nil {
		log.Default().Fatal(err)
	}

	for _, p := range resp.Parameters {
		if jsonData, err := json.MarshalIndent(p, "", "  "); err == nil {
			fmt.Println(string(jsonData))
		}
	}
}

// describeFilters builds the describe filter list from environment settings.
func describeFilters() []any {
	var inputs []any

	if prefix := os.Getenv("PARAMSTORE_NAME_PREFIX"); prefix != "" {
		inputs = append(inputs, map[string]any{
			"Key":    "Name",
			"Option": "BeginsWith",
			"Values": []string{prefix},
		})
	}

	if paramType := os.Getenv("PARAMSTORE_TYPE"); paramType != "" {
		inputs = append(inputs, map[string]any{
			"Key":    "Type",
			"Values": []string{paramType},
		})
	}

	return inputs
}
