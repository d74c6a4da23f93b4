package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "importer <arquivo.csv>",
		Short: "Importa planilhas de vendas dos marketplaces",
		Args:  cobra.ExactArgs(1),
		RunE:  runImport,
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Aplica ou desfaz as migrações do banco",
		RunE:  runMigrate,
	}

	dryRun    bool
	asEmail   string
	batchSize int
	showLines int
	asJSON    bool
	down      int
)

func main() {
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "valida a planilha sem gravar")
	rootCmd.Flags().StringVar(&asEmail, "as", "", "email do usuário registrado como autor do lote (padrão: sistema)")
	rootCmd.Flags().IntVar(&batchSize, "batch-size", 0, "linhas por INSERT (padrão: IMPORT_BATCH_SIZE)")
	rootCmd.Flags().IntVar(&showLines, "show-rejected", 20, "quantidade de linhas rejeitadas exibidas no resumo")
	rootCmd.Flags().BoolVar(&asJSON, "json", false, "imprime o resultado completo em JSON")

	migrateCmd.Flags().IntVar(&down, "down", -1, "desfaz as últimas N migrações (0 desfaz todas)")
	rootCmd.AddCommand(migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Error("importação falhou")
		os.Exit(1)
	}
}
