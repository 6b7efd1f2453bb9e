package commands

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/thiblahute/validatetest-go/cli/internal/config"
	"github.com/thiblahute/validatetest-go/cli/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init [file]",
	Short: "Create a starter validate test file",
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

var testTemplates = map[string]string{
	"playback": `meta,
    args = {
        "videotestsrc num-buffers=60 ! autovideosink",
    }

play;
wait, duration=1.0
stop;
`,
	"seek": `meta,
    args = {
        "videotestsrc num-buffers=300 ! autovideosink",
    }

play;
seek, start=0.0, flags=accurate+flush
wait, duration=0.5
seek, start=5.0, stop=10.0, flags=accurate+flush
stop;
`,
	"state changes": `meta,
    args = {
        "videotestsrc ! autovideosink",
    }

play;
set-state, state=paused
wait, duration=0.5
set-state, state=playing
wait, duration=0.5
stop;
`,
}

func runInit(cmd *cobra.Command, args []string) error {
	fileName := "test.validatetest"
	if len(args) > 0 {
		fileName = args[0]
	} else {
		prompt := &survey.Input{
			Message: "Test file name:",
			Default: fileName,
		}
		if err := survey.AskOne(prompt, &fileName); err != nil {
			return err
		}
	}

	var template string
	templateNames := make([]string, 0, len(testTemplates))
	for name := range testTemplates {
		templateNames = append(templateNames, name)
	}
	if err := survey.AskOne(&survey.Select{
		Message: "Test template:",
		Options: templateNames,
	}, &template); err != nil {
		return err
	}

	if exists, _ := afero.Exists(config.AppFs, fileName); exists {
		overwrite := false
		if err := survey.AskOne(&survey.Confirm{
			Message: fmt.Sprintf("%s already exists. Overwrite?", fileName),
		}, &overwrite); err != nil {
			return err
		}
		if !overwrite {
			ui.PrintInfo("Keeping existing %s", fileName)
			return nil
		}
	}

	if err := afero.WriteFile(config.AppFs, fileName, []byte(testTemplates[template]), 0644); err != nil {
		return fmt.Errorf("failed to create %s: %w", fileName, err)
	}

	ui.PrintSuccess("Created %s", absPath(fileName))
	fmt.Println()
	ui.PrintList([]string{
		"Edit the file to describe your test scenario",
		fmt.Sprintf("Check it with: validatetest parse %s", fileName),
		fmt.Sprintf("Format it with: validatetest format -i %s", fileName),
	})

	return nil
}
