package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"tpm-common-validation/pkg/validator/schema"
)

// validateOptions validate 命令的参数
type validateOptions struct {
	schema string
	file   string
	path   string
	each   bool
}

// itemResult --each 模式下单个元素的结果
type itemResult struct {
	Index int `json:"index"`
	schema.Result
}

func newValidateCmd(current func() *app) *cobra.Command {
	var opts validateOptions

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a JSON document against a schema",
		Long: `Reads a JSON document from --file (or stdin) and validates it against the named schema.
--path selects a sub-document (gjson syntax, e.g. data.order) and --each validates every element of a JSON array.
Exits with status 1 when any document is invalid.`,
		Example: `  tpmvalidate validate --schema order --file order.json
  cat export.json | tpmvalidate validate --schema product --path data.products --each`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if opts.file != "" && opts.file != "-" {
				f, err := os.Open(opts.file)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return runValidate(current(), in, cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.schema, "schema", "s", "", "Schema (entity) name")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "-", "JSON document to validate, - for stdin")
	cmd.Flags().StringVar(&opts.path, "path", "", "gjson path of the sub-document to validate")
	cmd.Flags().BoolVar(&opts.each, "each", false, "Validate every element of a JSON array")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

// runValidate 校验文档并输出缩进的 JSON 结果
// 存在未通过的文档时返回 errInvalid
func runValidate(a *app, in io.Reader, out io.Writer, opts validateOptions) error {
	raw, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}
	if !gjson.ValidBytes(raw) {
		return fmt.Errorf("input is not valid JSON")
	}

	doc := gjson.ParseBytes(raw)
	if opts.path != "" {
		doc = doc.Get(opts.path)
		if !doc.Exists() {
			return fmt.Errorf("path %q not found in document", opts.path)
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	if !opts.each {
		res, err := a.validator.ValidateJSON(opts.schema, []byte(doc.Raw))
		if err != nil {
			return err
		}
		if err := enc.Encode(res); err != nil {
			return err
		}
		if !res.Valid {
			return errInvalid
		}
		return nil
	}

	if !doc.IsArray() {
		return fmt.Errorf("--each requires a JSON array, got %s", doc.Type)
	}

	results := make([]itemResult, 0, len(doc.Array()))
	allValid := true
	var iterErr error
	doc.ForEach(func(_, elem gjson.Result) bool {
		res, err := a.validator.ValidateJSON(opts.schema, []byte(elem.Raw))
		if err != nil {
			iterErr = fmt.Errorf("element %d: %w", len(results), err)
			return false
		}
		allValid = allValid && res.Valid
		results = append(results, itemResult{Index: len(results), Result: res})
		return true
	})
	if iterErr != nil {
		return iterErr
	}

	if err := enc.Encode(results); err != nil {
		return err
	}
	if !allValid {
		return errInvalid
	}
	return nil
}
