// subdivide refines a sample control cage by one Catmull-Clark level using
// the table-driven compute kernels and reports the result.
package main

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/martijnberger/OpenSubdiv/internal/cage"
	"github.com/martijnberger/OpenSubdiv/internal/compute"
	"github.com/martijnberger/OpenSubdiv/internal/config"
	"github.com/martijnberger/OpenSubdiv/internal/logger"
	"github.com/martijnberger/OpenSubdiv/pkg/subdiv"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("subdivision failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	c, err := cage.New()
	if err != nil {
		return err
	}
	if cfg.Output.OBJPath != "" && cfg.Buffer.VertexWidth < 3 {
		return fmt.Errorf("OBJ output needs vertex width >= 3, have %d", cfg.Buffer.VertexWidth)
	}

	buf := subdiv.NewAttrBuffer(cfg.Buffer.VertexWidth, cfg.Buffer.VaryingWidth, cage.NumCorners)
	c.Seed(buf)
	buf.Resize(cage.TotalVerts)

	ctrl := compute.NewController(compute.Options{
		Workers: cfg.Compute.Workers,
		Grain:   cfg.Compute.Grain,
		Logger:  logger.Log,
	})
	defer ctrl.Close()

	start := time.Now()
	if err := ctrl.Refine(c.Tables, buf, c.Batches); err != nil {
		return err
	}

	logger.Info("cage refined",
		zap.Int("face_points", c.Tables.NumFacePoints()),
		zap.Int("edge_points", c.Tables.NumEdgePoints()),
		zap.Int("vertex_points", c.Tables.NumVertexPoints()),
		zap.Duration("elapsed", time.Since(start)))

	fmt.Printf("Refined %d cage vertices into %d (+%d face, +%d edge, +%d vertex points)\n",
		cage.NumCorners, buf.Len(),
		c.Tables.NumFacePoints(), c.Tables.NumEdgePoints(), c.Tables.NumVertexPoints())

	if cfg.Output.OBJPath != "" {
		if err := writeOBJ(cfg.Output.OBJPath, buf, c); err != nil {
			return fmt.Errorf("writing OBJ: %w", err)
		}
		logger.Info("wrote refined mesh", zap.String("path", cfg.Output.OBJPath))
	}

	return nil
}

// writeOBJ dumps the refined level as a quad mesh. Debugging convenience,
// not a supported interchange path.
func writeOBJ(path string, buf *subdiv.AttrBuffer, c *cage.Cage) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	// The refined mesh only references level-1 vertices, which start right
	// after the cage corners.
	for i := cage.FacePointBase; i < cage.TotalVerts; i++ {
		v := buf.Vertex(i)
		fmt.Fprintf(w, "v %g %g %g\n", v[0], v[1], v[2])
	}
	for _, q := range c.RefinedQuads() {
		fmt.Fprintf(w, "f %d %d %d %d\n",
			q[0]-cage.FacePointBase+1, q[1]-cage.FacePointBase+1,
			q[2]-cage.FacePointBase+1, q[3]-cage.FacePointBase+1)
	}

	return w.Flush()
}
