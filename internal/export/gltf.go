// Package export writes die models as binary glTF (.glb) files, one
// primitive and textured material per face.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/dicetray/internal/engine/model"
	"github.com/Faultbox/dicetray/internal/engine/texture"
)

// Options controls an export.
type Options struct {
	// Style applies to every face texture.
	Style texture.Style
	// Scale multiplies every vertex position. Zero means 1.
	Scale float64
}

// Document builds the glTF document for m.
func Document(m *model.Model, opts Options) (*gltf.Document, error) {
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "dicetray"

	mesh := &gltf.Mesh{Name: m.Type.String()}
	for _, f := range m.Faces {
		var (
			positions [][3]float32
			normals   [][3]float32
			uvs       [][2]float32
			indices   []uint32
		)
		n := [3]float32{float32(f.Normal[0]), float32(f.Normal[1]), float32(f.Normal[2])}
		for _, ti := range f.Triangles {
			t := m.Triangles[ti]
			for j, p := range t.Positions {
				indices = append(indices, uint32(len(positions)))
				positions = append(positions, [3]float32{
					float32(p[0] * scale), float32(p[1] * scale), float32(p[2] * scale),
				})
				normals = append(normals, n)
				uvs = append(uvs, [2]float32{float32(t.UVs[j][0]), float32(t.UVs[j][1])})
			}
		}

		img, err := texture.Render(f.Numerals, opts.Style)
		if err != nil {
			return nil, fmt.Errorf("face %d texture: %w", f.Index, err)
		}
		mat, err := faceMaterial(doc, fmt.Sprintf("%s-face-%d", m.Type, f.Index), img)
		if err != nil {
			return nil, fmt.Errorf("face %d material: %w", f.Index, err)
		}

		mesh.Primitives = append(mesh.Primitives, &gltf.Primitive{
			Attributes: map[string]uint32{
				gltf.POSITION:   uint32(modeler.WritePosition(doc, positions)),
				gltf.NORMAL:     uint32(modeler.WriteNormal(doc, normals)),
				gltf.TEXCOORD_0: uint32(modeler.WriteTextureCoord(doc, uvs)),
			},
			Indices:  gltf.Index(uint32(modeler.WriteIndices(doc, indices))),
			Material: gltf.Index(mat),
		})
	}

	doc.Meshes = []*gltf.Mesh{mesh}
	doc.Nodes = []*gltf.Node{{Name: m.Type.String(), Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(0))
	return doc, nil
}

// faceMaterial embeds img as PNG and returns the index of a material that
// samples it.
func faceMaterial(doc *gltf.Document, name string, img image.Image) (uint32, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return 0, err
	}
	imgIdx, err := modeler.WriteImage(doc, name, "image/png", &buf)
	if err != nil {
		return 0, err
	}
	doc.Textures = append(doc.Textures, &gltf.Texture{Source: gltf.Index(imgIdx)})
	texIdx := uint32(len(doc.Textures) - 1)

	doc.Materials = append(doc.Materials, &gltf.Material{
		Name:      name,
		AlphaMode: gltf.AlphaOpaque,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor:  &[4]float32{1, 1, 1, 1},
			BaseColorTexture: &gltf.TextureInfo{Index: texIdx},
			MetallicFactor:   gltf.Float(0.1),
			RoughnessFactor:  gltf.Float(0.5),
		},
	})
	return uint32(len(doc.Materials) - 1), nil
}

// Write encodes m as a .glb stream.
func Write(w io.Writer, m *model.Model, opts Options) error {
	doc, err := Document(m, opts)
	if err != nil {
		return err
	}
	enc := gltf.NewEncoder(w)
	enc.AsBinary = true
	return enc.Encode(doc)
}

// Save writes m to a .glb file at path.
func Save(path string, m *model.Model, opts Options) error {
	doc, err := Document(m, opts)
	if err != nil {
		return err
	}
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
