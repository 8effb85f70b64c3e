package main

import (
	"github.com/soypat/rupture/scene"
	"github.com/spf13/cobra"
)

var vertexLabels bool

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Write the figure and its optional STL, preview and stereonet files",
	Long: `Assemble the scene and write every output named in the configuration:

  output.path           plotly figure JSON with one frame per step
  output.stl_dir        frameNNN.stl per step and beachball.stl
  output.preview_png    rendered image of the rest pose
  output.stereonet_png  lower hemisphere beachball`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		var opts []scene.Option
		if vertexLabels {
			opts = append(opts, scene.WithVertexLabels())
		}
		s, err := scene.Assemble(ctx, cfg, opts...)
		if err != nil {
			return err
		}
		return s.Export(ctx)
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	flags := renderCmd.Flags()
	flags.Float64("strike", 0, "fault strike in degrees")
	flags.Float64("dip", 0, "fault dip in degrees")
	flags.Float64("rake", 0, "slip rake in degrees")
	flags.Int("steps", 0, "number of animation frames")
	flags.String("move-block", "", "block that moves: east, west or none")
	flags.Int("resolution", 0, "beachball samples along each angle")
	flags.StringP("out", "o", "", "plotly figure JSON path")
	flags.String("stl-dir", "", "directory for per frame STL files")
	flags.String("preview", "", "preview PNG path")
	flags.String("stereonet", "", "stereonet PNG or SVG path")
	flags.String("coastline", "", "coastline CSV or GeoJSON file")
	flags.BoolVar(&vertexLabels, "vertex-labels", false, "label block vertices p1..p8 and q1..q8")
	for key, name := range map[string]string{
		"fault.strike_deg":     "strike",
		"fault.dip_deg":        "dip",
		"fault.rake_deg":       "rake",
		"animation.steps":      "steps",
		"blocks.move_block":    "move-block",
		"beachball.resolution": "resolution",
		"output.path":          "out",
		"output.stl_dir":       "stl-dir",
		"output.preview_png":   "preview",
		"output.stereonet_png": "stereonet",
		"output.coastline":     "coastline",
	} {
		mustBind(key, flags.Lookup(name))
	}
}
