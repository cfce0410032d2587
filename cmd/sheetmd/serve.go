package main

import (
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ukaji3/sheetmd-go/pkg/sheetmd"
	"github.com/ukaji3/sheetmd-go/pkg/sheetmd/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web front end",
	Long: `serve starts an HTTP server with an upload/convert/download API over a
workspace of upload and output directories. Settings come from flags,
SHEETMD_* environment variables, or a sheetmd.yaml config file.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "Listen address")
	serveCmd.Flags().String("upload-dir", "uploads", "Directory for uploaded input files")
	serveCmd.Flags().String("output-dir", "output", "Directory for conversion artifacts")
	serveCmd.Flags().Int64("max-upload-mb", 50, "Maximum upload size in MiB")
	serveCmd.Flags().String("encoding", "", "Force a CSV text encoding instead of auto-detecting")

	viper.BindPFlag("addr", serveCmd.Flags().Lookup("addr"))
	viper.BindPFlag("upload-dir", serveCmd.Flags().Lookup("upload-dir"))
	viper.BindPFlag("output-dir", serveCmd.Flags().Lookup("output-dir"))
	viper.BindPFlag("max-upload-mb", serveCmd.Flags().Lookup("max-upload-mb"))
	viper.BindPFlag("encoding", serveCmd.Flags().Lookup("encoding"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ws := server.Workspace{
		UploadDir: viper.GetString("upload-dir"),
		OutputDir: viper.GetString("output-dir"),
	}
	cfg := server.Config{
		MaxUploadBytes: viper.GetInt64("max-upload-mb") * 1024 * 1024,
		Options:        sheetmd.Options{Encoding: viper.GetString("encoding")},
	}

	srv, err := server.New(ws, cfg)
	if err != nil {
		return err
	}

	addr := viper.GetString("addr")
	slog.Info("server listening",
		"addr", addr,
		"upload_dir", ws.UploadDir,
		"output_dir", ws.OutputDir,
	)
	return http.ListenAndServe(addr, srv.Handler())
}
