package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/five82/stoq/internal/catalog"
	"github.com/five82/stoq/internal/config"
)

func newGetCmd(o *rootOptions) *cobra.Command {
	var outputJSON bool
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := o.connect(cmd)
			if err != nil {
				return err
			}
			p, err := sess.client.GetProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), p)
			}
			writeProduct(cmd.OutOrStdout(), p)
			return nil
		},
	}
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Print the product as JSON")
	return cmd
}

// productFlags are the editable fields shared by create and update.
type productFlags struct {
	name          string
	ean           string
	price         float64
	description   string
	inactive      bool
	place         string
	picture       string
	removePicture bool
}

func (f *productFlags) register(fs *pflag.FlagSet, update bool) {
	fs.StringVar(&f.name, "name", "", "Product name")
	fs.StringVar(&f.ean, "ean", "", "EAN barcode (13 digits)")
	fs.Float64Var(&f.price, "price", 0, "Price")
	fs.StringVar(&f.description, "description", "", "Description")
	fs.BoolVar(&f.inactive, "inactive", false, "Mark the product inactive")
	fs.StringVar(&f.place, "place", string(catalog.SellingPlaceStore), "Selling place (store or event)")
	fs.StringVar(&f.picture, "picture", "", "Image file to attach (at most 5 MiB)")
	if update {
		fs.BoolVar(&f.removePicture, "remove-picture", false, "Remove the current picture")
	}
}

func (f *productFlags) readPicture() ([]byte, error) {
	path := strings.TrimSpace(f.picture)
	if path == "" {
		return nil, nil
	}
	resolved, err := config.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	return catalog.ReadPicture(resolved)
}

func (f *productFlags) createInput() (catalog.CreateInput, error) {
	picture, err := f.readPicture()
	if err != nil {
		return catalog.CreateInput{}, err
	}
	in := catalog.CreateInput{
		Name:         f.name,
		EAN:          strings.TrimSpace(f.ean),
		Price:        f.price,
		Description:  f.description,
		Active:       !f.inactive,
		SellingPlace: catalog.SellingPlace(strings.ToLower(strings.TrimSpace(f.place))),
		Picture:      picture,
	}
	return in, in.Validate()
}

// updateInput sends only the flags that were given on the command line.
func (f *productFlags) updateInput(fs *pflag.FlagSet) (catalog.UpdateInput, error) {
	var u catalog.UpdateInput
	if fs.Changed("name") {
		u.Name = &f.name
	}
	if fs.Changed("ean") {
		ean := strings.TrimSpace(f.ean)
		u.EAN = &ean
	}
	if fs.Changed("price") {
		u.Price = &f.price
	}
	if fs.Changed("description") {
		u.Description = &f.description
	}
	if fs.Changed("inactive") {
		active := !f.inactive
		u.Active = &active
	}
	if fs.Changed("place") {
		place := catalog.SellingPlace(strings.ToLower(strings.TrimSpace(f.place)))
		u.SellingPlace = &place
	}
	if fs.Changed("picture") && fs.Changed("remove-picture") {
		return u, errors.New("--picture and --remove-picture cannot be combined")
	}
	picture, err := f.readPicture()
	if err != nil {
		return u, err
	}
	u.Picture = picture
	u.RemovePicture = f.removePicture
	if u.Empty() {
		return u, errors.New("nothing to update")
	}
	return u, u.Validate()
}

func newCreateCmd(o *rootOptions) *cobra.Command {
	var f productFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		Long: `Create a product.

Examples:
  stoq create --name "Laptop Sleeve" --ean 5550001112223 --price 24.50 \
    --place event --picture ~/Pictures/sleeve.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := f.createInput()
			if err != nil {
				return err
			}
			sess, err := o.connect(cmd)
			if err != nil {
				return err
			}
			p, err := sess.client.CreateProduct(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Product created successfully!")
			writeProduct(cmd.OutOrStdout(), p)
			return nil
		},
	}
	f.register(cmd.Flags(), false)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("ean")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func newUpdateCmd(o *rootOptions) *cobra.Command {
	var f productFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a product",
		Long: `Change fields of a product. Only the flags given are sent.

Examples:
  stoq update 6f1c1f9e-8d6f-4a43-9d53-0c7c6f0f2a11 --price 19.99 --inactive`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := f.updateInput(cmd.Flags())
			if err != nil {
				return err
			}
			sess, err := o.connect(cmd)
			if err != nil {
				return err
			}
			p, err := sess.client.UpdateProduct(cmd.Context(), args[0], u)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Product updated successfully!")
			writeProduct(cmd.OutOrStdout(), p)
			return nil
		},
	}
	f.register(cmd.Flags(), true)
	return cmd
}

func writeProduct(w io.Writer, p catalog.Product) {
	created := "-"
	if t := p.ParsedInsertedAt(); !t.IsZero() {
		created = t.Local().Format("2006-01-02 15:04:05")
	}
	description := p.Description
	if strings.TrimSpace(description) == "" {
		description = "-"
	}
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Rows(
			[]string{"Name:", p.Name},
			[]string{"EAN:", p.EAN},
			[]string{"Price:", p.PriceLabel()},
			[]string{"Description:", description},
			[]string{"Status:", p.StatusLabel()},
			[]string{"Selling Place:", p.SellingPlace.Label()},
			[]string{"Created:", created},
			[]string{"Picture:", p.PictureLabel()},
			[]string{"ID:", p.ID},
		)
	fmt.Fprintln(w, t.String())
}
