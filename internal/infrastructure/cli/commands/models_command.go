package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/doeshing/readerstate/internal/app"
	"github.com/doeshing/readerstate/internal/domain"
	"github.com/doeshing/readerstate/internal/infrastructure/cli/helpers"
)

// NewModelsCommand creates the 'config model' command with all subcommands
func NewModelsCommand(container *app.Container) *cobra.Command {
	modelsCmd := &cobra.Command{
		Use:     "model",
		Aliases: []string{"models"},
		Short:   "Manage AI model definitions",
	}

	modelsCmd.AddCommand(
		newModelsListCommand(container),
		newModelsAddCommand(container),
		newModelsRemoveCommand(container),
		newModelsActivateCommand(container),
	)

	return modelsCmd
}

// newModelsListCommand creates the 'config model list' subcommand
func newModelsListCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured models",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listModels(cmd.OutOrStdout(), container)
		},
	}
}

// newModelsAddCommand creates the 'config model add' subcommand
func newModelsAddCommand(container *app.Container) *cobra.Command {
	var model domain.AIModel

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a model definition, or replace the one with the same --id",
		RunE: func(cmd *cobra.Command, args []string) error {
			return addModel(cmd.OutOrStdout(), container, model)
		},
	}

	cmd.Flags().StringVar(&model.ID, "id", "", "Model id (generated when empty)")
	cmd.Flags().StringVar(&model.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&model.ModelID, "model-id", "", "Model identifier at the provider")
	cmd.Flags().StringVar(&model.APIEndpoint, "endpoint", "", "Provider endpoint URL")
	cmd.Flags().StringVar(&model.APIKey, "api-key", "", "API key")
	cmd.Flags().BoolVar(&model.SupportsChat, "chat", true, "Model can serve chat")
	cmd.Flags().BoolVar(&model.SupportsTranslation, "translate", true, "Model can serve translation")

	return cmd
}

// newModelsRemoveCommand creates the 'config model remove' subcommand
func newModelsRemoveCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a model definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return removeModel(cmd.OutOrStdout(), container, args[0])
		},
	}
}

// newModelsActivateCommand creates the 'config model activate' subcommand
func newModelsActivateCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "activate <chat|translate> <id>",
		Short: "Select the model used for chat or translation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := domain.ModelKind(strings.ToLower(args[0]))
			if kind != domain.ModelKindChat && kind != domain.ModelKindTranslate {
				return fmt.Errorf("unknown model kind %q (want chat|translate)", args[0])
			}
			return activateModel(cmd.OutOrStdout(), container, kind, args[1])
		},
	}
}

// listModels prints every configured model, marking active selections
func listModels(out io.Writer, container *app.Container) error {
	svc, err := helpers.GetStateService(container)
	if err != nil {
		return err
	}

	cfg := svc.GetConfig()
	if len(cfg.AIModels) == 0 {
		fmt.Fprintln(out, MsgNoModelsConfigured)
		return nil
	}

	for _, model := range cfg.AIModels {
		var marks []string
		if model.ID == cfg.ActiveChatModel {
			marks = append(marks, "chat*")
		} else if model.SupportsChat {
			marks = append(marks, "chat")
		}
		if model.ID == cfg.ActiveTranslateModel {
			marks = append(marks, "translate*")
		} else if model.SupportsTranslation {
			marks = append(marks, "translate")
		}
		fmt.Fprintf(out, "%s | %s | %s | %s\n", model.ID, model.Name, model.ModelID, strings.Join(marks, ","))
	}
	return nil
}

// addModel upserts a model definition
func addModel(out io.Writer, container *app.Container, model domain.AIModel) error {
	if strings.TrimSpace(model.Name) == "" {
		return errors.New(ErrModelFieldsRequired)
	}
	if model.ID == "" {
		model.ID = uuid.NewString()
	}

	svc, err := helpers.GetStateService(container)
	if err != nil {
		return err
	}
	cfg := svc.GetConfig()
	replaced, err := cfg.UpsertModel(model)
	if err != nil {
		return err
	}
	if err := helpers.SaveConfigWithValidation(container, cfg); err != nil {
		return err
	}

	verb := "Added"
	if replaced {
		verb = "Updated"
	}
	fmt.Fprintf(out, "%s model %s (%s)\n", verb, model.Name, model.ID)
	return nil
}

// removeModel deletes a model definition, clearing active selections that used it
func removeModel(out io.Writer, container *app.Container, id string) error {
	svc, err := helpers.GetStateService(container)
	if err != nil {
		return err
	}
	cfg := svc.GetConfig()
	if err := cfg.RemoveModel(id); err != nil {
		return err
	}
	if err := helpers.SaveConfigWithValidation(container, cfg); err != nil {
		return err
	}
	fmt.Fprintf(out, "Removed model %s\n", id)
	return nil
}

// activateModel selects the model used for kind
func activateModel(out io.Writer, container *app.Container, kind domain.ModelKind, id string) error {
	svc, err := helpers.GetStateService(container)
	if err != nil {
		return err
	}
	cfg := svc.GetConfig()
	if err := cfg.SetActiveModel(kind, id); err != nil {
		return err
	}
	if err := helpers.SaveConfigWithValidation(container, cfg); err != nil {
		return err
	}
	fmt.Fprintf(out, "Active %s model: %s\n", kind, id)
	return nil
}
