package renderer

const vertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;

uniform mat4 uModel;
uniform mat4 uViewProj;

out vec3 vWorld;

void main() {
	vec4 world = uModel * vec4(aPos, 1.0);
	vWorld = world.xyz;
	gl_Position = uViewProj * world;
}
`

// Fragments on the negative side of any active plane are discarded. Flat
// normals come from screen-space derivatives since meshes carry no normals.
const fragmentShader = `
#version 410 core

in vec3 vWorld;

uniform vec3 uColor;
uniform float uOpacity;
uniform vec3 uEye;
uniform int uShade;
uniform int uNumClip;
uniform vec4 uClipPlanes[8];

out vec4 FragColor;

void main() {
	for (int i = 0; i < 8; i++) {
		if (i >= uNumClip) {
			break;
		}
		vec4 p = uClipPlanes[i];
		if (dot(p.xyz, vWorld) + p.w < 0.0) {
			discard;
		}
	}

	float shade = 1.0;
	if (uShade == 1) {
		vec3 n = normalize(cross(dFdx(vWorld), dFdy(vWorld)));
		vec3 l = normalize(uEye - vWorld);
		shade = 0.45 + 0.55 * abs(dot(n, l));
	}
	FragColor = vec4(uColor * shade, uOpacity);
}
`
