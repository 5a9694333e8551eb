package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gofile/gofile_sdk_go/pkg/gofile"
)

var (
	folderColor = color.New(color.FgBlue, color.Bold)
	fileColor   = color.New(color.FgWhite)
	labelColor  = color.New(color.FgGreen)
)

// clientOptions translates the persistent flags into SDK options.
func clientOptions(cmd *cobra.Command) []gofile.Option {
	opts := []gofile.Option{}
	if apiURL, _ := cmd.Flags().GetString("api-url"); apiURL != "" {
		opts = append(opts, gofile.WithBaseURL(apiURL))
	}
	if zone, _ := cmd.Flags().GetString("zone"); zone != "" {
		opts = append(opts, gofile.WithZone(zone))
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		log := logrus.New()
		log.SetLevel(logrus.DebugLevel)
		opts = append(opts, gofile.WithLogger(log))
	}
	return opts
}

func newAuthorized(cmd *cobra.Command) (*gofile.Authorized, error) {
	return gofile.NewFromEnv(clientOptions(cmd)...)
}

func newServersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "servers",
		Short: "List the available upload servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := gofile.New(clientOptions(cmd)...)
			if err != nil {
				return err
			}
			servers, err := client.GetServers(cmd.Context())
			if err != nil {
				return err
			}
			for _, server := range servers {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", server.Name, server.Zone)
			}
			return nil
		},
	}
}

func newAccountCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "account",
		Short: "Show the account owning the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newAuthorized(cmd)
			if err != nil {
				return err
			}
			details, err := api.GetAccountDetails(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", labelColor.Sprint("id:"), details.ID)
			fmt.Fprintf(out, "%s %s\n", labelColor.Sprint("email:"), details.Email)
			fmt.Fprintf(out, "%s %s\n", labelColor.Sprint("tier:"), details.Tier)
			fmt.Fprintf(out, "%s %s\n", labelColor.Sprint("root folder:"), details.RootFolder)
			fmt.Fprintf(out, "%s %d files, %d bytes\n", labelColor.Sprint("usage:"), details.FilesCount, details.TotalSize)
			return nil
		},
	}
}

func newContentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "content <id|code|url>",
		Short: "Show a content tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newAuthorized(cmd)
			if err != nil {
				return err
			}

			arg := args[0]
			var content *gofile.Content
			if strings.Contains(arg, "://") {
				content, err = api.GetContentByURL(cmd.Context(), arg)
			} else {
				content, err = api.GetContent(cmd.Context(), arg)
			}
			if err != nil {
				return err
			}
			printContent(cmd, *content)
			return nil
		},
	}
}

func printContent(cmd *cobra.Command, content gofile.Content) {
	out := cmd.OutOrStdout()
	if file, ok := content.File(); ok {
		fmt.Fprintf(out, "%s  %d bytes  %s  %s\n", fileColor.Sprint(content.Name), file.Size, file.MimeType, file.Link)
		return
	}

	folder, _ := content.Folder()
	fmt.Fprintf(out, "%s  code=%s public=%t\n", folderColor.Sprint(content.Name+"/"), folder.Code, folder.Public)
	children := make([]gofile.Content, 0, len(folder.Contents))
	for _, child := range folder.Contents {
		children = append(children, child)
	}
	sort.Slice(children, func(i, j int) bool { return children[i].Name < children[j].Name })
	for _, child := range children {
		if child.IsFolder() {
			fmt.Fprintf(out, "  %s\n", folderColor.Sprint(child.Name+"/"))
			continue
		}
		file, _ := child.File()
		fmt.Fprintf(out, "  %s  %d bytes\n", fileColor.Sprint(child.Name), file.Size)
	}
}

func newMkdirCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <parent-folder-id> <name>",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newAuthorized(cmd)
			if err != nil {
				return err
			}
			parentID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("parent folder id: %w", err)
			}
			folder, err := api.CreateFolder(cmd.Context(), parentID, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s)\n", folderColor.Sprint(folder.Name+"/"), folder.ID)
			return nil
		},
	}
}

func newUploadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a file, as guest or into a folder of the account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folderFlag, _ := cmd.Flags().GetString("folder")
			guest, _ := cmd.Flags().GetBool("guest")

			var server *gofile.ServerClient
			var err error
			if guest {
				var client *gofile.Client
				client, err = gofile.New(clientOptions(cmd)...)
				if err != nil {
					return err
				}
				server, err = client.GetServer(cmd.Context())
			} else {
				var api *gofile.Authorized
				api, err = newAuthorized(cmd)
				if err != nil {
					return err
				}
				server, err = api.GetServer(cmd.Context())
			}
			if err != nil {
				return err
			}

			opts := []gofile.UploadOption{gofile.WithProgress(progressLine(cmd))}
			if folderFlag != "" {
				folderID, err := uuid.Parse(folderFlag)
				if err != nil {
					return fmt.Errorf("folder id: %w", err)
				}
				opts = append(opts, gofile.WithFolderID(folderID))
			}

			uploaded, err := server.UploadFile(cmd.Context(), args[0], opts...)
			fmt.Fprintln(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", labelColor.Sprint("download page:"), uploaded.DownloadPage)
			fmt.Fprintf(out, "%s %s\n", labelColor.Sprint("file id:"), uploaded.FileID)
			fmt.Fprintf(out, "%s %s\n", labelColor.Sprint("md5:"), uploaded.MD5)
			if uploaded.GuestToken != "" {
				fmt.Fprintf(out, "%s %s\n", labelColor.Sprint("guest token:"), uploaded.GuestToken)
			}
			return nil
		},
	}
	cmd.Flags().String("folder", "", "upload into this folder id")
	cmd.Flags().Bool("guest", false, "upload without an account token")
	return cmd
}

// progressLine rewrites a single status line as bytes flow.
func progressLine(cmd *cobra.Command) gofile.ProgressFunc {
	return func(uploaded, total int64) {
		if total > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "\r%d/%d bytes (%d%%)", uploaded, total, uploaded*100/total)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\r%d bytes", uploaded)
	}
}

func newCopyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cp <content-id>... <dest-folder-id>",
		Short: "Copy contents into a folder",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newAuthorized(cmd)
			if err != nil {
				return err
			}
			ids, err := parseIDs(args[:len(args)-1])
			if err != nil {
				return err
			}
			destID, err := uuid.Parse(args[len(args)-1])
			if err != nil {
				return fmt.Errorf("destination folder id: %w", err)
			}
			return api.CopyContent(cmd.Context(), ids, destID)
		},
	}
}

func newRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <content-id>...",
		Short: "Delete contents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newAuthorized(cmd)
			if err != nil {
				return err
			}
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return api.DeleteContent(cmd.Context(), ids...)
		},
	}
}

func newSetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <content-id> <option> <value>",
		Short: "Set a content option (public, password, description, expire, tags)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newAuthorized(cmd)
			if err != nil {
				return err
			}
			contentID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("content id: %w", err)
			}
			opt, err := parseOption(args[1], args[2])
			if err != nil {
				return err
			}
			return api.SetOption(cmd.Context(), contentID, opt)
		},
	}
	return cmd
}

func parseOption(name, value string) (gofile.ContentOption, error) {
	switch name {
	case "public":
		return gofile.PublicOption(value == "true"), nil
	case "password":
		return gofile.PasswordOption(value), nil
	case "description":
		return gofile.DescriptionOption(value), nil
	case "expire":
		expire, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return gofile.ContentOption{}, fmt.Errorf("expire must be RFC3339: %w", err)
		}
		return gofile.ExpireOption(expire), nil
	case "tags":
		return gofile.TagsOption(strings.Split(value, ",")), nil
	}
	return gofile.ContentOption{}, fmt.Errorf("unknown option %q", name)
}

func newLinkCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link <file-id>",
		Short: "Enable and print the direct download link of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newAuthorized(cmd)
			if err != nil {
				return err
			}
			fileID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("file id: %w", err)
			}
			disable, _ := cmd.Flags().GetBool("disable")
			if disable {
				return api.DisableDirectLink(cmd.Context(), fileID)
			}
			link, err := api.GetDirectLink(cmd.Context(), fileID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), link)
			return nil
		},
	}
	cmd.Flags().Bool("disable", false, "turn the direct link off instead")
	return cmd
}

func parseIDs(args []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(args))
	for _, arg := range args {
		id, err := uuid.Parse(arg)
		if err != nil {
			return nil, fmt.Errorf("content id %q: %w", arg, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
