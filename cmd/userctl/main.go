// Command userctl es un cliente de línea de comandos para la API de usuarios.
package main

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(&client{Out: os.Stdout}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func newRootCmd(cl *client) *cobra.Command {
	var (
		baseURL = envOr("USERCTL_URL", "http://localhost:5000")
		out     = envOr("USERCTL_OUT", "text")
		timeout = 30 * time.Second
	)

	root := &cobra.Command{
		Use:           "userctl",
		Short:         "CLI para la API de usuarios",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if out != "json" && out != "text" {
				return fmt.Errorf("--out debe ser json|text")
			}
			cl.BaseURL = baseURL
			cl.OutFormat = out
			if cl.HTTP == nil {
				cl.HTTP = &http.Client{Timeout: timeout}
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&baseURL, "url", baseURL, "URL base de la API (env USERCTL_URL)")
	root.PersistentFlags().StringVar(&out, "out", out, "Formato de salida: json|text")

	// ping: GET /readyz
	pingCmd := &cobra.Command{
		Use:   "ping",
		Short: "Verifica que el servicio y su store respondan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := cl.call("ping", http.MethodGet, "/readyz", nil)
			if err != nil {
				return err
			}
			if cl.OutFormat == "text" {
				fmt.Fprintln(cl.Out, "ok")
				return nil
			}
			cl.print(body)
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Lista todos los usuarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := cl.call("list", http.MethodGet, "/users", nil)
			if err != nil {
				return err
			}
			cl.printUsers(body)
			return nil
		},
	}

	var createSets []string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Crea un usuario (--set k=v ...)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := parseSets(createSets)
			if err != nil {
				return err
			}
			body, err := cl.call("create", http.MethodPost, "/users", payload)
			if err != nil {
				return err
			}
			cl.print(body)
			return nil
		},
	}
	createCmd.Flags().StringArrayVar(&createSets, "set", nil, "Campo a escribir, k=v (repetible)")

	var updateSets []string
	updateCmd := &cobra.Command{
		Use:   "update ID",
		Short: "Actualiza campos de un usuario (--set k=v ...)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := parseSets(updateSets)
			if err != nil {
				return err
			}
			body, err := cl.call("update", http.MethodPut, "/users/"+url.PathEscape(args[0]), payload)
			if err != nil {
				return err
			}
			cl.print(body)
			return nil
		},
	}
	updateCmd.Flags().StringArrayVar(&updateSets, "set", nil, "Campo a escribir, k=v (repetible)")

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Elimina un usuario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := cl.call("delete", http.MethodDelete, "/users/"+url.PathEscape(args[0]), nil)
			if err != nil {
				return err
			}
			cl.print(body)
			return nil
		},
	}

	root.AddCommand(pingCmd, listCmd, createCmd, updateCmd, deleteCmd)
	return root
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
