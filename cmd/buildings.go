/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/campusboard/server/internal/services"
	"github.com/campusboard/server/internal/storage"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var buildingsCmd = &cobra.Command{
	Use:   "buildings",
	Short: "Manage building information pages",
}

var buildingsUploadCmd = &cobra.Command{
	Use:   "upload <dir>",
	Short: "Upload building pages from a directory",
	Long: `Upload every B01.html .. B99.html file found in dir to the configured
object storage bucket. Other files are skipped. Usage:

	campusboard buildings upload ./static/building
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log := loadConfig()
		objects, err := storage.Open(cmd.Context(), cfg.Storage)
		if err != nil {
			return err
		}
		if objects == nil {
			return errors.New("STORAGE_BACKEND is not set")
		}
		if err := objects.EnsureBucket(cmd.Context()); err != nil {
			return fmt.Errorf("ensure bucket: %w", err)
		}

		entries, err := os.ReadDir(args[0])
		if err != nil {
			return err
		}

		buildings := services.NewBuildingService(objects)
		uploaded := 0
		for _, entry := range entries {
			id, ok := services.BuildingIDFromFilename(entry.Name())
			if entry.IsDir() || !ok {
				log.WithField("file", entry.Name()).Debug("skipping")
				continue
			}
			if err := uploadBuildingPage(cmd, buildings, id, filepath.Join(args[0], entry.Name())); err != nil {
				return err
			}
			log.WithFields(logrus.Fields{"building": id, "key": services.BuildingPageKey(id)}).Info("uploaded")
			uploaded++
		}

		log.WithFields(logrus.Fields{"count": uploaded, "bucket": objects.Bucket()}).Info("building pages uploaded")
		return nil
	},
}

func uploadBuildingPage(cmd *cobra.Command, buildings *services.BuildingService, id int, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if err := buildings.Upload(cmd.Context(), id, f, info.Size()); err != nil {
		return fmt.Errorf("upload %s: %w", path, err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(buildingsCmd)
	buildingsCmd.AddCommand(buildingsUploadCmd)
}
