package app

import (
	"fmt"
	"io"
)

// Command はCLIのサブコマンドを表す。
type Command string

const (
	CommandLogin       Command = "login"
	CommandLogout      Command = "logout"
	CommandWhoami      Command = "whoami"
	CommandProjects    Command = "projects"
	CommandEquipment   Command = "equipment"
	CommandDossiers    Command = "dossiers"
	CommandCourriers   Command = "courriers"
	CommandDocuments   Command = "documents"
	CommandHistory     Command = "history"
	CommandRegions     Command = "regions"
	CommandStats       Command = "stats"
	CommandCreate      Command = "create"
	CommandUpdate      Command = "update"
	CommandValidate    Command = "validate"
	CommandReject      Command = "reject"
	CommandDelete      Command = "delete"
	CommandUpload      Command = "upload"
	CommandDownload    Command = "download"
	CommandWatch       Command = "watch"
	CommandMigrate     Command = "migrate"
	CommandHealthcheck Command = "healthcheck"
	CommandHelp        Command = "help"
)

var commands = []struct {
	cmd   Command
	usage string
}{
	{CommandLogin, "login [--username NAME] [--password-file PATH]"},
	{CommandLogout, "logout"},
	{CommandWhoami, "whoami"},
	{CommandProjects, "projects [--region-code CODE] [--region ID] [--etat ETAT] [--id ID]"},
	{CommandEquipment, "equipment [--statut S] [--etat E] [--projet ID] [--id ID]"},
	{CommandDossiers, "dossiers [--statut S] [--type T] [--equipement ID] [--id ID]"},
	{CommandCourriers, "courriers [--statut S] [--expediteur ID] [--destinataire ID] [--dossier ID] [--id ID]"},
	{CommandDocuments, "documents --courrier ID [--type T]"},
	{CommandHistory, "history [--objet-type TYPE] [--objet-id ID] [--limit N]"},
	{CommandRegions, "regions"},
	{CommandStats, "stats [--activity N]"},
	{CommandCreate, "create project|equipment|dossier|courrier [flags]"},
	{CommandUpdate, "update equipment ID [flags]"},
	{CommandValidate, "validate dossier|equipment ID... [--commentaire TEXT]"},
	{CommandReject, "reject dossier|equipment ID... [--commentaire TEXT]"},
	{CommandDelete, "delete equipment ID"},
	{CommandUpload, "upload --courrier ID [--description TEXT] FILE"},
	{CommandDownload, "download DOCUMENT_ID [--output PATH]"},
	{CommandWatch, "watch [--interval D] [--status-addr ADDR]"},
	{CommandMigrate, "migrate"},
	{CommandHealthcheck, "healthcheck"},
}

// ParseCommand はコマンドライン引数からサブコマンドを解析する。
// 引数が空またはサポート外のコマンドの場合はCommandHelpとfalseを返す。
func ParseCommand(args []string) (Command, bool) {
	if len(args) == 0 {
		return CommandHelp, true
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		return CommandHelp, true
	}
	for _, c := range commands {
		if string(c.cmd) == args[0] {
			return c.cmd, true
		}
	}
	return CommandHelp, false
}

// PrintUsage は利用可能なサブコマンドの一覧を出力する。
func PrintUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: suivi <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %s\n", c.usage)
	}
}
