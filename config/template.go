package config

// DefaultTemplate is written for a level that has no config yet.
const DefaultTemplate = `# triangulation of the navmesh preview polygons, one of:
#   tess      shortest diagonal ear clipping, accurate most of the time
#   earcut    use when tess leaves holes
#   delaunay  sometimes gives prettier results
#   smallest  tries all of the above and keeps the fewest triangles (slower)
triangulation: tess

options:
  cellSize: 0.25        # voxelization cell size
  cellHeight: 0.1       # voxelization cell height
  agentHeight: 1.0      # agent capsule height
  agentRadius: 0.5      # agent capsule radius
  agentMaxClimb: 0.3    # how high steps agents can climb, in voxels
  agentMaxSlope: 40.0   # maximum slope angle, in degrees
  regionMinSize: 12.0   # minimum isolated region size that is still kept
  regionMergeSize: 32.0 # how large regions can be still merged
  edgeMaxLen: 16.0      # maximum edge length, in voxels
  edgeMaxError: 2.5     # how loosely the simplification is done

# vertices of the voxelizer mesh closer than this, in map units, are merged
merge_distance: 1.0

# false splits the mesh into tiles, only use on smaller maps
solo: true
`
