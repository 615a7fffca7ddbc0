package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/todos/internal/notify"
)

var permissionCmd = &cobra.Command{
	Use:   "permission",
	Short: "Show or change whether reminders are allowed",
	Args:  cobra.NoArgs,
	RunE:  runPermissionShow,
}

var permissionGrantCmd = &cobra.Command{
	Use:   "grant",
	Short: "Allow reminders",
	Args:  cobra.NoArgs,
	RunE:  setPermission(notify.Granted),
}

var permissionDenyCmd = &cobra.Command{
	Use:   "deny",
	Short: "Disallow reminders",
	Args:  cobra.NoArgs,
	RunE:  setPermission(notify.Denied),
}

var permissionResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the decision so the next launch asks again",
	Args:  cobra.NoArgs,
	RunE:  setPermission(notify.NotDetermined),
}

func init() {
	rootCmd.AddCommand(permissionCmd)
	permissionCmd.AddCommand(permissionGrantCmd, permissionDenyCmd, permissionResetCmd)
}

func runPermissionShow(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime(os.Stderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	auth, err := rt.center.Authorization(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Println(describe(auth))
	return nil
}

func setPermission(a notify.Authorization) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(os.Stderr)
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.center.SetAuthorization(cmd.Context(), a); err != nil {
			return err
		}
		if a != notify.Granted {
			if err := rt.center.RemoveAllPending(cmd.Context()); err != nil {
				return err
			}
		}
		fmt.Println(describe(a))
		return nil
	}
}

func describe(a notify.Authorization) string {
	switch a {
	case notify.Granted:
		return "Reminders are allowed."
	case notify.Denied:
		return "Reminders are not allowed."
	default:
		return "Reminders have not been decided yet; todos will ask on next launch."
	}
}
