package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"tpm-common-validation/pkg/validator/check"
)

func newPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "password <value>",
		Short: "Report the strength of a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPassword(cmd.OutOrStdout(), args[0])
		},
	}
}

// runPassword 输出密码强度评估，未通过时返回 errInvalid
func runPassword(out io.Writer, password string) error {
	strength := check.ValidatePasswordStrength(password)

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(strength); err != nil {
		return err
	}
	if !strength.Valid {
		return errInvalid
	}
	return nil
}
