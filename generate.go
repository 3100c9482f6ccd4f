package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openclaw/qrforge/config"
	"github.com/openclaw/qrforge/content"
	"github.com/openclaw/qrforge/qrgen"
	"github.com/openclaw/qrforge/render"
)

type generateFlags struct {
	configPath string
	fields     content.Fields
	req        qrgen.Request
	boxSize    int
	border     int
	logoPath   string
	output     string
	terminal   bool
}

func newGenerateCmd() *cobra.Command {
	var f generateFlags
	cmd := &cobra.Command{
		Use:   "generate [data]",
		Short: "Generate a QR code image",
		Long: "Generate a QR code image. The optional positional argument fills the url\n" +
			"field (or text for --type text). Every other field has its own flag.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				f.applyArg(args[0])
			}
			f.req.Fields = f.fields
			if cmd.Flags().Changed("box-size") {
				f.req.BoxSize = &f.boxSize
			}
			if cmd.Flags().Changed("border") {
				f.req.Border = &f.border
			}
			return runGenerate(cmd.Context(), cmd.OutOrStdout(), f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "config.yaml", "Path to config file (render defaults, font)")

	fl.StringVarP((*string)(&f.fields.Type), "type", "t", "url", "QR type: "+typeList())
	fl.StringVar(&f.fields.URL, "url", "", "URL")
	fl.StringVar(&f.fields.Text, "text", "", "Plain text")
	fl.StringVar(&f.fields.Email, "email", "", "Email address")
	fl.StringVar(&f.fields.Subject, "subject", "", "Email subject")
	fl.StringVar(&f.fields.Message, "message", "", "Email body")
	fl.StringVar(&f.fields.Phone, "phone", "", "Phone number")
	fl.StringVar(&f.fields.Lat, "lat", "", "Latitude")
	fl.StringVar(&f.fields.Lng, "lng", "", "Longitude")
	fl.StringVar(&f.fields.LocationType, "location-type", content.LocationGeo, "Map flavour: geo, google, apple, waze")
	fl.StringVar(&f.fields.SSID, "ssid", "", "WiFi network name")
	fl.StringVar(&f.fields.Password, "password", "", "WiFi password")
	fl.StringVar(&f.fields.Security, "security", "WPA", "WiFi security: WPA, WEP, nopass")
	fl.StringVar(&f.fields.Name, "name", "", "Contact name")
	fl.StringVar(&f.fields.Org, "org", "", "Contact organisation")

	fl.StringVar(&f.req.Template, "template", "", "Style preset: "+strings.Join(qrgen.Templates(), ", "))
	fl.StringVar(&f.req.Style, "style", "", "Module style: square, rounded, circle, gapped")
	fl.StringVar(&f.req.ErrorCorrection, "ec", "", "Error correction: L, M, Q, H")
	fl.StringVar(&f.req.FgColor, "fg", "", "Foreground colour (#RRGGBB)")
	fl.StringVar(&f.req.BgColor, "bg", "", "Background colour (#RRGGBB)")
	fl.StringVar(&f.req.GradientType, "gradient", "", "Gradient: none, linear, radial")
	fl.StringVar(&f.req.GradientColor, "gradient-color", "", "Gradient edge colour (#RRGGBB)")
	fl.StringVar(&f.req.FrameStyle, "frame", "", "Frame: none, simple, rounded, shadow")
	fl.StringVar(&f.req.LabelText, "label", "", "Text drawn under the code")
	fl.IntVar(&f.boxSize, "box-size", 10, "Pixels per module")
	fl.IntVar(&f.border, "border", 4, "Quiet zone width in modules")
	fl.StringVar(&f.logoPath, "logo", "", "Logo image placed in the centre")
	fl.StringVar(&f.req.Format, "format", "", "Output format: png, jpeg, gif, bmp, tiff (default from -o)")
	fl.StringVarP(&f.output, "output", "o", "qrcode.png", "Output file")
	fl.BoolVar(&f.terminal, "terminal", false, "Print the code to the terminal instead of writing a file")

	return cmd
}

func (f *generateFlags) applyArg(arg string) {
	switch f.fields.Kind() {
	case content.TypeText:
		f.fields.Text = arg
	default:
		f.fields.URL = arg
	}
}

func typeList() string {
	names := make([]string, len(content.Types))
	for i, t := range content.Types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func runGenerate(ctx context.Context, w io.Writer, f generateFlags) error {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, closeLog := newLogger(cfg, os.Stderr)
	defer closeLog.Close()

	svc := qrgen.NewService(qrgen.Deps{
		Renderer: render.NewRenderer(cfg.FontPath, log),
		Defaults: cfg.RenderOptions(),
		Log:      log,
	})
	defer svc.Close()

	if f.terminal {
		text, err := content.Format(f.req.Fields)
		if err != nil {
			return err
		}
		o, err := svc.Options(f.req)
		if err != nil {
			return err
		}
		render.Terminal(text, o.ErrorCorrection, w)
		return nil
	}

	if f.logoPath != "" {
		logo, err := render.OpenLogo(f.logoPath)
		if err != nil {
			return err
		}
		f.req.LogoImage = logo
	}
	if f.req.Format == "" {
		f.req.Format = string(render.FormatForPath(f.output))
	}

	res, err := svc.Generate(ctx, f.req)
	if err != nil {
		return err
	}
	if err := os.WriteFile(f.output, res.Image, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", f.output, err)
	}
	fmt.Fprintf(w, "wrote %s (%s, %d bytes)\n", f.output, res.Format, len(res.Image))
	return nil
}
